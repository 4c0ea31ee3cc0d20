package importer

import "github.com/Faultbox/scenery/internal/engine/serial"

// Load opens any supported scene file: glTF through LoadGLTF, JSON and
// YAML models through serial.Load.
func Load(path string) (*serial.Parsed, error) {
	if IsGLTF(path) {
		return LoadGLTF(path)
	}
	return serial.Load(path)
}
