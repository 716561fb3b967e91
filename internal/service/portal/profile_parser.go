package portal

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ayame/salon-sync-go/internal/constants"
	"github.com/ayame/salon-sync-go/internal/domain"
	"github.com/ayame/salon-sync-go/internal/util"
	"github.com/ayame/salon-sync-go/pkg/errors"
	"go.uber.org/zap"
)

// ProfileParser extracts therapist profiles from the portal's listing page
// and enriches them from per-therapist detail pages.
type ProfileParser struct {
	sel    Selectors
	vocab  LabelVocabulary
	logger *zap.Logger
}

func NewProfileParser(sel Selectors, vocab LabelVocabulary, logger *zap.Logger) *ProfileParser {
	return &ProfileParser{
		sel:    sel,
		vocab:  vocab,
		logger: logger,
	}
}

// ParseList walks the profile blocks on the listing page. Blocks missing a
// photo, a "name(age)" heading, or a numeric external id are malformed and
// become SkippedUnit outcomes.
func (p *ProfileParser) ParseList(markup []byte) ([]domain.ExternalProfile, []domain.SkippedUnit, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, nil, errors.NewParseError("HTML parse failed", "profiles", err)
	}

	profiles := make([]domain.ExternalProfile, 0)
	skipped := make([]domain.SkippedUnit, 0)

	doc.Find(p.sel.ProfileBlock).Each(func(i int, block *goquery.Selection) {
		images := block.Find(p.sel.ProfileImage)
		photoURL, hasPhoto := images.First().Attr("src")
		if !hasPhoto || photoURL == "" {
			skipped = append(skipped, domain.SkippedUnit{
				Reason:  domain.SkipNoPhoto,
				Snippet: util.TruncateString(strings.TrimSpace(block.Text()), 60),
			})
			return
		}

		heading := block.Find(p.sel.ProfileHeading).First().Text()
		name, age, ok := SplitNameAge(heading)
		if !ok {
			skipped = append(skipped, domain.SkippedUnit{
				Reason:  domain.SkipNoNameAge,
				Snippet: util.TruncateString(strings.TrimSpace(heading), 60),
			})
			return
		}

		detailHref, _ := block.Find(p.sel.ProfileLink).First().Attr("href")
		externalID, ok := ExtractExternalID(detailHref)
		if !ok {
			skipped = append(skipped, domain.SkippedUnit{
				Reason:  domain.SkipNoExternalID,
				Snippet: name,
			})
			return
		}

		profile := domain.ExternalProfile{
			Name:       name,
			Age:        age,
			ExternalID: externalID,
			PhotoURL:   photoURL,
			Tags:       make([]string, 0),
			DetailURL:  detailHref,
		}

		images.EachWithBreak(func(j int, img *goquery.Selection) bool {
			if len(profile.PhotoURLs) >= constants.SyncConfig.MaxPhotos {
				return false
			}
			if src, exists := img.Attr("src"); exists && src != "" {
				profile.PhotoURLs = append(profile.PhotoURLs, src)
			}
			return true
		})

		block.Find(p.sel.ProfileBadge).Each(func(j int, badge *goquery.Selection) {
			if tag := strings.TrimSpace(badge.Text()); tag != "" {
				profile.Tags = append(profile.Tags, tag)
			}
		})

		if line := strings.TrimSpace(block.Find(p.sel.ProfileMetrics).First().Text()); line != "" {
			m := ParseBodyMetrics(line)
			profile.Height = m.Height
			profile.Bust = m.Bust
			profile.CupSize = m.CupSize
			profile.Waist = m.Waist
			profile.Hip = m.Hip
		}

		profiles = append(profiles, profile)
	})

	p.logger.Debug("Parsed profile list",
		zap.Int("profiles", len(profiles)),
		zap.Int("skipped", len(skipped)))

	return profiles, skipped, nil
}

// ParseDetail reads the open-ended label/value table on a detail page and
// fills in whatever fields the label vocabulary recognizes. Unknown labels
// are ignored. The profile's base fields are already set; a failed detail
// fetch simply means this is never called.
func (p *ProfileParser) ParseDetail(markup []byte, profile *domain.ExternalProfile) error {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return errors.NewParseError("HTML parse failed", "profile_detail", err)
	}

	doc.Find(p.sel.DetailRow).Each(func(i int, row *goquery.Selection) {
		label := strings.TrimSpace(row.Find(p.sel.DetailLabel).First().Text())
		value := strings.TrimSpace(row.Find(p.sel.DetailValue).First().Text())
		if label == "" || value == "" {
			return
		}

		field, known := p.vocab[label]
		if !known {
			return
		}

		p.assign(profile, field, value)
	})

	paragraphs := make([]string, 0)
	doc.Find(p.sel.DetailMessage).Each(func(i int, para *goquery.Selection) {
		if text := strings.TrimSpace(para.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) > 0 {
		message := strings.Join(paragraphs, "\n")
		profile.Message = &message
	}

	doc.Find(p.sel.DetailSNSLink).EachWithBreak(func(i int, link *goquery.Selection) bool {
		href, exists := link.Attr("href")
		if !exists {
			return true
		}
		if handle, ok := ExtractXHandle(href); ok {
			profile.XAccount = &handle
			return false
		}
		return true
	})

	return nil
}

func (p *ProfileParser) assign(profile *domain.ExternalProfile, field ProfileField, value string) {
	switch field {
	case FieldBodyType:
		profile.BodyType = &value
	case FieldExperienceYears:
		if years, ok := ExtractDigits(value); ok {
			profile.ExperienceYears = &years
		}
	case FieldSpecialties:
		profile.Specialties = &value
	case FieldBloodType:
		profile.BloodType = &value
	case FieldFavoriteFood:
		profile.FavoriteFood = &value
	case FieldIdealType:
		profile.IdealType = &value
	case FieldCelebrityLookalike:
		profile.CelebrityLookalike = &value
	case FieldDayOffActivities:
		profile.DayOffActivities = &value
	case FieldHobbies:
		profile.Hobbies = &value
	}
}
