package arch

import (
	"fmt"
	"sort"

	"github.com/symgrind/symgrind/arch/arm64"
	"github.com/symgrind/symgrind/arch/x86"
	"github.com/symgrind/symgrind/arch/x86_64"
	"github.com/symgrind/symgrind/models"
)

var archMap = map[string]models.CpuBuilder{
	"arm64":  &arm64.Builder{},
	"x86":    &x86.Builder{},
	"x86_64": &x86_64.Builder{},
}

// GetArch builds a fresh backend for name. Each backend owns an
// independent state cache; nothing is shared between calls.
func GetArch(name string) (models.Cpu, error) {
	b, ok := archMap[name]
	if !ok {
		return nil, fmt.Errorf("arch '%s' not found", name)
	}
	return b.New()
}

func Names() []string {
	names := make([]string, 0, len(archMap))
	for name := range archMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
