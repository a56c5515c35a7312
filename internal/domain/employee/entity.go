package employee

import (
	"strconv"
	"strings"
)

// DirectoryRecord is one row of the master employee store. Only EmployeeID
// and Name are guaranteed; the rest depend on which columns the store has.
type DirectoryRecord struct {
	EmployeeID string
	Name       string
	Department *string
	CardNo     *string
	Gender     *string
}

// EmploymentRecord is the most relevant employment row for an employee
// (open-ended first, then most recent start). Current is false when the
// row carries an end date.
type EmploymentRecord struct {
	EmployeeID string
	Department *string
	Current    bool
}

type CardRecord struct {
	EmployeeID string
	CardNo     string
	Active     *bool
}

// Usable reports whether the card may refine the directory's card number.
// Cards with an unknown activity flag are accepted.
func (c *CardRecord) Usable() bool {
	if c == nil || strings.TrimSpace(c.CardNo) == "" {
		return false
	}
	return c.Active == nil || *c.Active
}

// Profile is the enriched identity copied onto a booking.
type Profile struct {
	EmployeeID string
	Name       string
	Department *string
	CardNo     *string
	Gender     *string
}

// BuildProfile merges the three sources. The directory record is mandatory;
// employment and card refine it only when they carry a non-blank value.
func BuildProfile(rec DirectoryRecord, employment *EmploymentRecord, card *CardRecord) Profile {
	p := Profile{
		EmployeeID: strings.TrimSpace(rec.EmployeeID),
		Name:       strings.TrimSpace(rec.Name),
		Department: nonBlank(rec.Department),
		CardNo:     nonBlank(rec.CardNo),
		Gender:     nonBlank(rec.Gender),
	}

	if employment != nil {
		if dept := nonBlank(employment.Department); dept != nil {
			p.Department = dept
		}
	}

	if card.Usable() {
		cardNo := strings.TrimSpace(card.CardNo)
		p.CardNo = &cardNo
	}

	return p
}

// ParseActive interprets the loosely typed "active" column of card stores:
// bit, int, bool or text flags such as "Y" and "active".
func ParseActive(v any) *bool {
	var b bool
	switch x := v.(type) {
	case nil:
		return nil
	case bool:
		b = x
	case int64:
		b = x != 0
	case int32:
		b = x != 0
	case int:
		b = x != 0
	case float64:
		b = x != 0
	case []byte:
		return ParseActive(string(x))
	case string:
		s := strings.ToLower(strings.TrimSpace(x))
		switch s {
		case "":
			return nil
		case "1", "true", "t", "y", "yes", "active", "a":
			b = true
		case "0", "false", "f", "n", "no", "inactive", "i":
			b = false
		default:
			n, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil
			}
			b = n != 0
		}
	default:
		return nil
	}
	return &b
}

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
