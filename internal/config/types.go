package config

import "github.com/modu-ai/license/internal/license"

// Config holds user defaults for license generation. Empty strings mean
// "not configured" and leave the value to the resolver's own defaults.
type Config struct {
	Author         string `yaml:"author"`
	Organization   string `yaml:"organization"`
	Website        string `yaml:"website"`
	Project        string `yaml:"project"`
	Year           string `yaml:"year"`
	Output         string `yaml:"output"`
	Comment        string `yaml:"comment"`
	NonInteractive bool   `yaml:"non_interactive"`
}

// Values returns the configured template variables keyed by variable name.
// Unset fields are omitted.
func (c *Config) Values() map[string]string {
	out := make(map[string]string, 5)
	for name, v := range map[string]string{
		license.VarFullname:     c.Author,
		license.VarOrganization: c.Organization,
		license.VarWebsite:      c.Website,
		license.VarProject:      c.Project,
		license.VarYear:         c.Year,
	} {
		if v != "" {
			out[name] = v
		}
	}
	return out
}
