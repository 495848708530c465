//go:build !windows

package defaults

import "github.com/wakepy-go/wakepy/method"

// windowsDescriptors is empty on non-Windows builds: methods/windows
// does not compile outside GOOS=windows, so there is nothing to
// register here.
func windowsDescriptors() []method.Descriptor { return nil }
