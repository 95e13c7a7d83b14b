package config

func preset(mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	mutate(cfg)
	return cfg
}

var Presets = map[string]func() *Config{
	// The stock portrait cascade: five gates, one ball, thirty seconds.
	"classic": func() *Config {
		return preset(func(c *Config) {})
	},
	// Recycling gate that shrinks toward the center until the passage
	// budget runs out.
	"infinite": func() *Config {
		return preset(func(c *Config) {
			c.Gates.Mode = "infinite"
			c.Gates.Count = 1
			c.Gates.MinRadius = 450
			c.Gates.RandomGap = true
			c.Video.Duration = 60
		})
	},
	// Fast chaotic variant: several balls, all gaps open from the start.
	"swarm": func() *Config {
		return preset(func(c *Config) {
			c.Balls.Count = 4
			c.Gates.AllOpen = true
			c.Gates.RandomGap = true
			c.Physics.Gravity = 600
		})
	},
	// Landscape preview for quick local runs.
	"preview": func() *Config {
		return preset(func(c *Config) {
			c.Video.Width = 640
			c.Video.Height = 360
			c.Video.FPS = 30
			c.Video.Duration = 5
			c.Video.Bitrate = "2000k"
			c.Gates.Count = 3
			c.Gates.MinRadius = 60
			c.Gates.Spacing = 10
			c.Gates.Thickness = 8
		})
	},
}

func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
