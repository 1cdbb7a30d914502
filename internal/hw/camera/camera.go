package camera

// Camera abstracts a still camera that writes one image per call.
// Implementations block until the frame is on disk at path.
type Camera interface {
	Shoot(path string) error
}
