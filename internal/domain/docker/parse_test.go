package docker

import "testing"

func TestParseContainers(t *testing.T) {
	out := "abc123\tnginx:latest\t\"/docker-entrypoint.sh\"\t2 hours ago\tUp 2 hours\t0.0.0.0:8080->80/tcp\tweb\n" +
		"def456\tpostgres:16\t\"postgres\"\t3 days ago\tExited (0) 1 day ago\t\tdb\n"

	containers := ParseContainers(out)
	if len(containers) != 2 {
		t.Fatalf("expected 2 containers, got %d", len(containers))
	}

	web := containers[0]
	if web.ID != "abc123" || web.Image != "nginx:latest" || web.Names != "web" {
		t.Errorf("unexpected first container: %+v", web)
	}
	if web.Command != "/docker-entrypoint.sh" {
		t.Errorf("command quotes not stripped: %q", web.Command)
	}
	if !web.Running() {
		t.Error("expected first container to be running")
	}

	db := containers[1]
	if db.Running() {
		t.Error("exited container reported as running")
	}
	if db.Ports != "" {
		t.Errorf("expected empty ports, got %q", db.Ports)
	}
}

func TestParseContainersSkipsMalformedLines(t *testing.T) {
	out := "only\ttwo\n\nabc\tnginx\t\"cmd\"\t1h\tUp 1h\t\tweb\n"
	containers := ParseContainers(out)
	if len(containers) != 1 {
		t.Fatalf("expected 1 container, got %d", len(containers))
	}
	if containers[0].Names != "web" {
		t.Errorf("unexpected container: %+v", containers[0])
	}
}

func TestParseContainersEmpty(t *testing.T) {
	if got := ParseContainers(""); len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
}

func TestParseImages(t *testing.T) {
	out := "nginx\tlatest\tsha256:aa11\t2 weeks ago\t187MB\n" +
		"<none>\t<none>\tsha256:bb22\t5 months ago\t1.2GB\n"

	images := ParseImages(out)
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(images))
	}
	if images[0].Repository != "nginx" || images[0].Tag != "latest" || images[0].Size != "187MB" {
		t.Errorf("unexpected first image: %+v", images[0])
	}
	if images[0].Created != "2 weeks ago" {
		t.Errorf("expected created column, got %q", images[0].Created)
	}
	if images[1].Repository != "<none>" {
		t.Errorf("dangling image row mangled: %+v", images[1])
	}
}

func TestParseImagesEmpty(t *testing.T) {
	if got := ParseImages("\n\n"); len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
}
