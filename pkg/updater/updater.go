package updater

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const releaseURL = "https://api.github.com/repos/Darhlilove/dashly-sub001/releases/latest"

type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// CheckForUpdates queries GitHub for the latest release.
// Returns the new version tag and its URL if an update is available,
// empty strings otherwise.
func CheckForUpdates(current string) (string, string, error) {
	// Short timeout so a slow network never delays startup noticeably.
	client := http.Client{
		Timeout: 2 * time.Second,
	}

	resp, err := client.Get(releaseURL)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("github api returned status %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", "", err
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	if latest != "" && latest != strings.TrimPrefix(current, "v") {
		return release.TagName, release.HTMLURL, nil
	}
	return "", "", nil
}
