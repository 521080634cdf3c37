package scenes

// Transition describes how a scene enters the frame.
type Transition string

const (
	Cut       Transition = "cut"
	Crossfade Transition = "crossfade"
)

// Description is one scene as proposed by the scene-description
// collaborator (the LLM, or the keyword fallback). It is untrusted
// input: callers validate before mapping it onto the timeline.
type Description struct {
	Summary     string `json:"summary"`
	ImagePrompt string `json:"image_prompt"`
	StartWord   int    `json:"start_word"`
	Mood        string `json:"mood"`
}

// Valid reports whether the collaborator supplied the two fields the
// timeline cannot work without.
func (d Description) Valid() bool {
	return d.ImagePrompt != "" && d.StartWord >= 0
}

// Scene is one background visual bound to a time range. After
// post-processing the scene list partitions [0, audioDuration] with no
// gaps, and Index runs contiguously from 0.
type Scene struct {
	Index       int        `yaml:"index"`
	Summary     string     `yaml:"summary"`
	ImagePrompt string     `yaml:"image_prompt"`
	ImagePath   string     `yaml:"image_path,omitempty"`
	Start       float64    `yaml:"start"`
	End         float64    `yaml:"end"`
	StartWord   int        `yaml:"start_word"`
	EndWord     int        `yaml:"end_word"`
	Transition  Transition `yaml:"transition"`
	Mood        string     `yaml:"mood"`
}

// Duration returns the scene's length in seconds.
func (s Scene) Duration() float64 {
	return s.End - s.Start
}
