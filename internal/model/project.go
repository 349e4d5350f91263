package model

// ProjectFileName is the project file every testcraft project carries at
// its root.
const ProjectFileName = "testcraft.yaml"

// Project is the parsed testcraft.yaml project model. Parsing is
// best-effort; schema validation is not performed here.
type Project struct {
	Name    string         `yaml:"name"`
	Version string         `yaml:"version"`
	Base    string         `yaml:"base,omitempty"`
	Summary string         `yaml:"summary,omitempty"`
	Parts   map[string]any `yaml:"parts,omitempty"`
}

// Metadata is written as metadata.yaml into every packed artifact.
type Metadata struct {
	Name             string `yaml:"name"`
	Version          string `yaml:"version"`
	TestcraftVersion string `yaml:"testcraft_version"`
}
