package source

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ortelius/vulnwatch-backend/model"
	"github.com/ortelius/vulnwatch-backend/util"
)

var v = validator.New()

// Rejection reasons, also used as metric labels.
const (
	ReasonSeverity   = "severity"
	ReasonValidation = "validation"
	ReasonDuplicate  = "duplicate"
)

// Rejection is a record left out of the snapshot.
type Rejection struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

func (r Rejection) Error() string {
	return fmt.Sprintf("advisory %q rejected (%s): %v", r.ID, r.Reason, r.Err)
}

// Normalize turns raw records into advisories. The severity label is matched
// case-insensitively; when it is missing or unknown the rating of the CVSS vector is
// used instead. Records with no usable severity, a missing required field or an id
// already seen earlier in the input are rejected.
func Normalize(records []Record) ([]model.Advisory, []Rejection) {
	advisories := make([]model.Advisory, 0, len(records))
	var rejections []Rejection
	seen := make(map[string]struct{}, len(records))

	for _, r := range records {
		id := r.Identity()

		severity, err := coerceSeverity(r)
		if err != nil {
			rejections = append(rejections, Rejection{ID: id, Reason: ReasonSeverity, Err: err})
			continue
		}

		a := model.Advisory{
			ID:               id,
			Vendor:           strings.TrimSpace(r.Vendor),
			CveID:            strings.TrimSpace(r.CveID),
			Severity:         severity,
			Summary:          r.Summary,
			Product:          strings.TrimSpace(r.Product),
			PublishedDate:    strings.TrimSpace(r.PublishedDate),
			URL:              r.URL,
			AffectedVersions: r.AffectedVersions,
			InsertedAt:       strings.TrimSpace(r.InsertedAt),
		}

		if err := v.Struct(a); err != nil {
			rejections = append(rejections, Rejection{ID: id, Reason: ReasonValidation, Err: validationError(err)})
			continue
		}

		if _, dup := seen[a.ID]; dup {
			rejections = append(rejections, Rejection{ID: id, Reason: ReasonDuplicate, Err: errors.New("duplicate id")})
			continue
		}
		seen[a.ID] = struct{}{}

		advisories = append(advisories, a)
	}

	return advisories, rejections
}

func coerceSeverity(r Record) (model.Severity, error) {
	severity, err := model.ParseSeverity(r.Severity)
	if err == nil {
		return severity, nil
	}

	if r.CVSSVector != "" {
		if s, ok := model.SeverityFromScore(util.CalculateCVSSScore(r.CVSSVector)); ok {
			return s, nil
		}
		return "", fmt.Errorf("%w: no rating for vector %q", model.ErrUnknownSeverity, r.CVSSVector)
	}
	return "", err
}

// validationError lists the failing fields instead of validator's verbose message.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+" "+fe.Tag())
	}
	return fmt.Errorf("invalid fields: %s", strings.Join(fields, ", "))
}
