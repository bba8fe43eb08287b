package config

// Default returns the compiled-in configuration, used whenever no
// configuration file is present. The URLs mirror the launcher's published
// resource list.
func Default() *Config {
	return &Config{
		Flash: FlashConfig{
			FallbackVersion: "32.0.0.465",
			Windows: AssetSpec{
				PrimaryURL:  "https://www.flash.cn/cdm/latest/flashplayer_sa.exe",
				FallbackURL: "https://fpdownload.macromedia.com/pub/flashplayer/updaters/32/flashplayer_32_sa.exe",
				Filename:    "flashplayer_sa.exe",
			},
			Darwin: AssetSpec{
				PrimaryURL: "https://fpdownload.macromedia.com/pub/flashplayer/updaters/32/flashplayer_32_sa.dmg",
				Filename:   "Flash Player.app",
			},
			Linux: AssetSpec{
				PrimaryURL:  "https://fpdownload.macromedia.com/pub/flashplayer/updaters/32/flash_player_sa_linux.x86_64.tar.gz",
				FallbackURL: "https://archive.org/download/flashplayer_standalone_projectors/flash_player_sa_linux.x86_64.tar.gz",
				Filename:    "flashplayer",
			},
		},
		Ruffle: RuffleConfig{
			// static fallbacks, only used if nightly discovery fails
			Windows: AssetSpec{
				PrimaryURL: "https://github.com/ruffle-rs/ruffle/releases/download/nightly-2026-02-09/ruffle-nightly-2026_02_09-windows-x86_64.zip",
				Filename:   "ruffle.exe",
			},
			Darwin: AssetSpec{
				PrimaryURL: "https://github.com/ruffle-rs/ruffle/releases/download/nightly-2026-02-09/ruffle-nightly-2026_02_09-macos-universal.tar.gz",
				Filename:   "ruffle",
			},
			Linux: AssetSpec{
				PrimaryURL: "https://github.com/ruffle-rs/ruffle/releases/download/nightly-2026-02-09/ruffle-nightly-2026_02_09-linux-x86_64.tar.gz",
				Filename:   "ruffle",
			},
		},
		Games: map[string]string{
			"PTD1":        "https://ptd.onl/ptd1-latest.swf",
			"PTD1_Hacked": "https://ptd.onl/ptd1-hacked-latest.swf",
			"PTD2":        "https://ptd.onl/ptd2-latest.swf",
			"PTD2_Hacked": "https://ptd.onl/ptd2-hacked-latest.swf",
			"PTD3":        "https://ptd.onl/ptd3-latest.swf",
			"PTD3_Hacked": "https://ptd.onl/ptd3-hacked-latest.swf",
		},
	}
}
