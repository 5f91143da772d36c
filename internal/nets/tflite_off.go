//go:build !TFLITE
// +build !TFLITE

package nets

import "fmt"

// NewTFLite reports that the binary was built without TensorFlow Lite.
func NewTFLite(fileName string, k Kind, threads int) (Network, error) {
	return nil, fmt.Errorf("nets: cannot load %s, tflite support not compiled in (build with -tags TFLITE)", fileName)
}
