package compositor

import "os"

func writeGarbage(path string) error {
	return os.WriteFile(path, []byte("not an image or font"), 0o644)
}
