package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gcolon75/Project-Valine-sub011/internal/models"
)

const (
	MinPasswordLen = 8
	MaxLinkLabel   = 40
	MaxLinkURL     = 2048
	MaxTitleLen    = 200
	MaxBodyLen     = 10000
	MaxGroupName   = 100
)

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	linkRe  = regexp.MustCompile(`^https?://`)
)

// NormalizeEmail collapses the case/whitespace variants the duplicate check
// must treat as equal.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func Email(email string) error {
	if !emailRe.MatchString(NormalizeEmail(email)) {
		return errors.New("invalid email address")
	}
	return nil
}

func Password(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}
	return nil
}

func DisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("display name is required")
	}
	if len(name) > 100 {
		return errors.New("display name too long")
	}
	return nil
}

// ProfileLink enforces the same bounds as the web client: label at most 40
// characters, URL http(s) and at most 2048 characters.
func ProfileLink(l models.ProfileLink) error {
	label := strings.TrimSpace(l.Label)
	if label == "" {
		return errors.New("link label is required")
	}
	if len(label) > MaxLinkLabel {
		return fmt.Errorf("link label must be at most %d characters", MaxLinkLabel)
	}
	if len(l.URL) > MaxLinkURL {
		return fmt.Errorf("link url must be at most %d characters", MaxLinkURL)
	}
	if !linkRe.MatchString(l.URL) {
		return errors.New("link url must start with http:// or https://")
	}
	return nil
}

func ProfileLinks(links []models.ProfileLink) error {
	for _, l := range links {
		if err := ProfileLink(l); err != nil {
			return err
		}
	}
	return nil
}

// MessageBody rejects blank/whitespace-only bodies; sending those is a no-op
// at the client, and the server refuses them too.
func MessageBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return errors.New("message body is required")
	}
	if len(body) > MaxBodyLen {
		return errors.New("message body too long")
	}
	return nil
}

func PostTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("title is required")
	}
	if len(title) > MaxTitleLen {
		return fmt.Errorf("title must be at most %d characters", MaxTitleLen)
	}
	return nil
}

func GroupName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("group name is required")
	}
	if len(name) > MaxGroupName {
		return errors.New("group name too long")
	}
	return nil
}
