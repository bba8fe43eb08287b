package launch

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "https://ptd.onl/games/", baseURL("https://ptd.onl/games/ptd1.swf"))
	assert.Equal(t, "https://ptd.onl/", baseURL("https://ptd.onl/ptd1.swf"))
	assert.Equal(t, "noslash", baseURL("noslash"))
}

func TestStart(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("no 'true' binary on this system")
	}

	assert.NoError(t, start("true", "ignored-arg"))
	assert.Error(t, start("/nonexistent/player", "game.swf"))
}
