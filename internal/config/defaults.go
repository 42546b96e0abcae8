package config

const (
	defaultSourceType     = "speaker"
	defaultHoldPreviousMS = 1500
	defaultMinShotMS      = 1500
	defaultPiPScale       = 0.25
	defaultFPS            = 30.0
	defaultOutputWidth    = 1920
	defaultOutputHeight   = 1080
)

// Default returns a Project populated with repository defaults. Loading
// decodes a file over these, so absent keys keep them and explicit zeros
// stick.
func Default() Project {
	return Project{
		Switching: Switching{
			HoldPreviousMS: defaultHoldPreviousMS,
			MinShotMS:      defaultMinShotMS,
		},
		Layout: Layout{
			PiPScale: defaultPiPScale,
		},
		Output: Output{
			FPS:    defaultFPS,
			Width:  defaultOutputWidth,
			Height: defaultOutputHeight,
		},
	}
}
