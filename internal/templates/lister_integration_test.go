package templates

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const nginxConf = `server {
    listen 80;
    location /repos/test-owner/test-repo/contents/ {
        default_type application/json;
        root /usr/share/nginx/html;
        try_files /listing.json =404;
    }
}
`

const listingJSON = `[
  {"name": "react-router", "path": "template/react-router", "type": "dir"},
  {"name": "vanilla", "path": "template/vanilla", "type": "dir"},
  {"name": "README.md", "path": "template/README.md", "type": "file"}
]`

// TestLister_AgainstHTTPServer lists templates from a static contents
// listing served by a real nginx container
func TestLister_AgainstHTTPServer(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	addr, err := startContentsServer(ctx, t)
	require.NoError(t, err, "Failed to start nginx container")

	lister, err := NewLister(testTemplatesConfig(addr), quietLogger())
	require.NoError(t, err)

	names, err := lister.Templates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"react-router", "vanilla"}, names)

	t.Logf("Listed %d templates from %s", len(names), addr)
}

func startContentsServer(ctx context.Context, t *testing.T) (string, error) {
	dir := t.TempDir()
	confPath := filepath.Join(dir, "default.conf")
	listingPath := filepath.Join(dir, "listing.json")
	if err := os.WriteFile(confPath, []byte(nginxConf), 0o644); err != nil {
		return "", err
	}
	if err := os.WriteFile(listingPath, []byte(listingJSON), 0o644); err != nil {
		return "", err
	}

	req := testcontainers.ContainerRequest{
		Image:        "nginx:1.27-alpine",
		ExposedPorts: []string{"80/tcp"},
		Files: []testcontainers.ContainerFile{
			{HostFilePath: confPath, ContainerFilePath: "/etc/nginx/conf.d/default.conf", FileMode: 0o644},
			{HostFilePath: listingPath, ContainerFilePath: "/usr/share/nginx/html/listing.json", FileMode: 0o644},
		},
		WaitingFor: wait.ForListeningPort("80/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", err
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	mappedPort, err := container.MappedPort(ctx, "80")
	if err != nil {
		return "", err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port()), nil
}
