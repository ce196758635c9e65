package installer

import (
	"slices"

	"github.com/mitchellh/go-ps"
)

// packageManagerProcesses are executables that hold the dpkg lock while running.
//
//nolint:gochecknoglobals // Read-only lookup table.
var packageManagerProcesses = []string{
	"dpkg",
	"apt",
	"apt-get",
	"aptitude",
	"unattended-upgr",
}

// BusyPackageManagers lists the names of running package manager processes.
// dpkg refuses to install while any of them holds its lock.
func BusyPackageManagers() ([]string, error) {
	processList, err := ps.Processes()
	if err != nil {
		return nil, err
	}

	return busyAmong(processList), nil
}

func busyAmong(processList []ps.Process) []string {
	var busy []string

	for _, process := range processList {
		if slices.Contains(packageManagerProcesses, process.Executable()) {
			busy = append(busy, process.Executable())
		}
	}

	return busy
}
