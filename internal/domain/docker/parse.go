package docker

import "strings"

// Field counts of the tab-separated --format templates the CLI adapter uses.
const (
	containerFields = 7
	imageFields     = 5
)

// ParseContainers parses tab-separated `docker ps` output produced with the
// container format template. Short or blank lines are dropped.
func ParseContainers(out string) []Container {
	containers := []Container{}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < containerFields {
			continue
		}
		containers = append(containers, Container{
			ID:      strings.TrimSpace(fields[0]),
			Image:   strings.TrimSpace(fields[1]),
			Command: strings.Trim(strings.TrimSpace(fields[2]), `"`),
			Created: strings.TrimSpace(fields[3]),
			Status:  strings.TrimSpace(fields[4]),
			Ports:   strings.TrimSpace(fields[5]),
			Names:   strings.TrimSpace(fields[6]),
		})
	}
	return containers
}

// ParseImages parses tab-separated `docker images` output produced with the
// image format template.
func ParseImages(out string) []Image {
	images := []Image{}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < imageFields {
			continue
		}
		images = append(images, Image{
			Repository: strings.TrimSpace(fields[0]),
			Tag:        strings.TrimSpace(fields[1]),
			ID:         strings.TrimSpace(fields[2]),
			Created:    strings.TrimSpace(fields[3]),
			Size:       strings.TrimSpace(fields[4]),
		})
	}
	return images
}
