package catalog

import (
	"fmt"
	"math/rand"
	"net/url"
	"regexp"
	"strings"
)

// Asset locations are derived deterministically from the bird ID.
const (
	imageBasePath = "assets/images/birds/"
	audioBasePath = "assets/audio/calls/"
)

// ImagePath returns the relative path of the bird's primary photo.
func ImagePath(bird Bird) string {
	return imageBasePath + bird.ID + ".jpg"
}

// ImagePaths returns the relative paths of all of the bird's photos: the
// primary un-numbered photo plus "-2", "-3", ... variants when the catalog
// declares more than one.
func ImagePaths(bird Bird) []string {
	count := bird.PhotoCount
	if count < 1 {
		count = 1
	}

	paths := make([]string, 0, count)
	paths = append(paths, ImagePath(bird))
	for i := 2; i <= count; i++ {
		paths = append(paths, fmt.Sprintf("%s%s-%d.jpg", imageBasePath, bird.ID, i))
	}
	return paths
}

// RandomImagePath returns one of the bird's photo paths at random.
func RandomImagePath(bird Bird) string {
	paths := ImagePaths(bird)
	return paths[rand.Intn(len(paths))]
}

// AudioPath returns the relative path of the bird's call recording.
func AudioPath(bird Bird) string {
	return audioBasePath + bird.ID + ".mp3"
}

// MediaManifest builds the flat list of every media asset for the given
// birds, in catalog order with each bird's image preceding its audio. This
// is the unit of work for the bulk offline download: exactly two entries per
// bird.
func MediaManifest(birds []Bird) []string {
	manifest := make([]string, 0, 2*len(birds))
	for _, bird := range birds {
		manifest = append(manifest, ImagePath(bird))
		manifest = append(manifest, AudioPath(bird))
	}
	return manifest
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// WikimediaSearchURL returns a Wikimedia Commons media search for the bird,
// used as a manual fallback when no local photo exists.
func WikimediaSearchURL(bird Bird) string {
	term := url.QueryEscape(strings.ReplaceAll(bird.CommonName, " ", "_"))
	return "https://commons.wikimedia.org/wiki/Special:Search?search=" + term +
		"&title=Special:MediaSearch&type=image"
}

// XenoCantoURL returns the xeno-canto recordings search for the bird.
func XenoCantoURL(bird Bird) string {
	return "https://xeno-canto.org/explore?query=" + url.QueryEscape(bird.ScientificName)
}

// EBirdURL returns the eBird species page for the bird.
func EBirdURL(bird Bird) string {
	return "https://ebird.org/species/" + strings.ReplaceAll(bird.ID, "-", "")
}

// AllAboutBirdsURL returns the All About Birds guide page for the bird.
func AllAboutBirdsURL(bird Bird) string {
	name := nonAlphanumeric.ReplaceAllString(strings.ToLower(bird.CommonName), "-")
	return "https://www.allaboutbirds.org/guide/" + strings.Trim(name, "-")
}
