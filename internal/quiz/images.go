package quiz

import (
	"regexp"

	"github.com/vytor/plantquiz/internal/models"
)

// Image URLs of the flora provider end with the image number, a format code
// and the extension, e.g. ".../img:000123O.jpg" for the original upload.
var formatSuffix = regexp.MustCompile(`(img:\d+)([A-Z]*)(\.[A-Za-z0-9]+)$`)

// DisplayURL returns the variant of url in the given format. URLs that carry no
// format code are returned unchanged.
func DisplayURL(url, format string) string {
	if format == "" || !formatSuffix.MatchString(url) {
		return url
	}
	return formatSuffix.ReplaceAllString(url, "${1}"+format+"${3}")
}

// CanonicalImage identifies an image regardless of its format variant.
func CanonicalImage(url string) string {
	return formatSuffix.ReplaceAllString(url, "${1}${3}")
}

// DedupeImages keeps the first image of each canonical identity, in order.
func DedupeImages(set models.ImageSet) models.ImageSet {
	seen := make(map[string]struct{}, len(set))
	out := make(models.ImageSet, 0, len(set))
	for _, img := range set {
		key := CanonicalImage(img.URL)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, img)
	}
	return out
}

// DisplayURLs lists the display variant of every image in manifest, without duplicates.
func DisplayURLs(manifest models.ImageManifest, format string) []string {
	seen := make(map[string]struct{})
	var urls []string
	for _, set := range manifest {
		for _, img := range set {
			u := DisplayURL(img.URL, format)
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			urls = append(urls, u)
		}
	}
	return urls
}

// FilterResolved drops the images whose display variant did not resolve. Plants
// left without images keep an empty entry.
func FilterResolved(manifest models.ImageManifest, format string, resolved map[string]bool) models.ImageManifest {
	out := make(models.ImageManifest, len(manifest))
	for plantID, set := range manifest {
		kept := make(models.ImageSet, 0, len(set))
		for _, img := range set {
			if resolved[DisplayURL(img.URL, format)] {
				kept = append(kept, img)
			}
		}
		out[plantID] = kept
	}
	return out
}
