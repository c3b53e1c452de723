package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values. Widths are in terminal cells.
const (
	DefaultTheme          = "dark"
	DefaultMenuWidth      = 60
	DefaultNameWidth      = 24
	DefaultReviewCacheTTL = 120 * time.Second
	DefaultStartMode      = "status"
	DefaultLogLevel       = "info"
	DefaultWatchDebounce  = 500 * time.Millisecond

	// MinMenuWidth fits a code, an icon, a short name and the glyph.
	MinMenuWidth = 30
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("theme", DefaultTheme)
	v.SetDefault("editor", "")
	v.SetDefault("icons", false)
	v.SetDefault("menu_width", DefaultMenuWidth)
	v.SetDefault("name_width", DefaultNameWidth)
	v.SetDefault("review_cache_ttl", DefaultReviewCacheTTL)
	v.SetDefault("base_ref", "")
	v.SetDefault("start_mode", DefaultStartMode)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("watch", true)
	v.SetDefault("watch_debounce", DefaultWatchDebounce)
}
