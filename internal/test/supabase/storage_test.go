package supabase_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nanitech-backend/internal/supabase"
)

func TestBuildImagePath(t *testing.T) {
	projectID := uuid.New()

	path := supabase.BuildImagePath(projectID, "hero.png")

	assert.True(t, strings.HasPrefix(path, "projects/"+projectID.String()+"/"))
	assert.True(t, strings.HasSuffix(path, "_hero.png"))
}

func TestBuildImagePath_UniquePerCall(t *testing.T) {
	projectID := uuid.New()

	first := supabase.BuildImagePath(projectID, "hero.png")
	second := supabase.BuildImagePath(projectID, "hero.png")

	assert.NotEqual(t, first, second)
}

func TestStorageClient_GetPublicURL(t *testing.T) {
	client, err := supabase.NewStorageClient("https://example.supabase.co/", "service-key", "project-images")
	require.NoError(t, err)

	url := client.GetPublicURL("projects/p/hero.png")

	assert.Equal(t, "https://example.supabase.co/storage/v1/object/public/project-images/projects/p/hero.png", url)
}
