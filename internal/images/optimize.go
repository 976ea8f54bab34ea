package images

import "NewsHarvester/internal/domain"

const (
	heroScoreFloor      = 40
	thumbnailScoreFloor = 15
)

// Classification buckets scored images by intended placement.
type Classification struct {
	Hero      []domain.ScoredImage
	Thumbnail []domain.ScoredImage
	Gallery   []domain.ScoredImage
}

// Optimize deduplicates by URL (first occurrence wins) and scores each image,
// preserving discovery order.
func Optimize(raw []domain.RawImage) []domain.ScoredImage {
	seen := map[string]struct{}{}
	scored := make([]domain.ScoredImage, 0, len(raw))

	for _, img := range raw {
		if img.URL == "" {
			continue
		}
		if _, ok := seen[img.URL]; ok {
			continue
		}
		seen[img.URL] = struct{}{}

		scored = append(scored, domain.ScoredImage{
			URL:    img.URL,
			Alt:    img.Alt,
			Width:  img.Width,
			Height: img.Height,
			Score:  Score(img),
		})
	}

	return scored
}

// Best returns the highest-scored image; ties break toward the earliest
// discovered entry, keeping selection stable.
func Best(scored []domain.ScoredImage) (domain.ScoredImage, bool) {
	if len(scored) == 0 {
		return domain.ScoredImage{}, false
	}

	best := scored[0]
	for _, img := range scored[1:] {
		if img.Score > best.Score {
			best = img
		}
	}
	return best, true
}

// Classify assigns usage classes by score band and aspect ratio. The returned
// images carry their assigned class; the input slice is not mutated.
func Classify(scored []domain.ScoredImage) Classification {
	var out Classification

	for _, img := range scored {
		classified := img
		switch {
		case img.Score >= heroScoreFloor && isHeroRatio(img):
			classified.Usage = domain.UsageHero
			out.Hero = append(out.Hero, classified)
		case img.Score >= thumbnailScoreFloor:
			classified.Usage = domain.UsageThumbnail
			out.Thumbnail = append(out.Thumbnail, classified)
		default:
			classified.Usage = domain.UsageGallery
			out.Gallery = append(out.Gallery, classified)
		}
	}

	return out
}

func isHeroRatio(img domain.ScoredImage) bool {
	if img.Width <= 0 || img.Height <= 0 {
		return false
	}
	ratio := float64(img.Width) / float64(img.Height)
	return ratio >= 1.2 && ratio <= 2.0
}
