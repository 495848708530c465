//go:build windows

package defaults

import (
	"github.com/wakepy-go/wakepy/method"
	"github.com/wakepy-go/wakepy/methods/windows"
)

func windowsDescriptors() []method.Descriptor {
	return []method.Descriptor{
		windows.NewKeepRunning(KeepRunning),
		windows.NewKeepPresenting(KeepPresenting),
	}
}
