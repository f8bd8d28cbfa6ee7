package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gatherly/internal/models"
)

// Field length bounds shared by the request payload validators.
const (
	minTitleLen       = 3
	maxTitleLen       = 120
	minAnnotationLen  = 20
	maxAnnotationLen  = 2000
	minDescriptionLen = 20
	maxDescriptionLen = 7000
	minUserNameLen    = 2
	maxUserNameLen    = 250
	minUserEmailLen   = 6
	maxUserEmailLen   = 254
	minCategoryLen    = 1
	maxCategoryLen    = 50
	minCompTitleLen   = 3
	maxCompTitleLen   = 50
	minCommentLen     = 3
	maxCommentLen     = 7000
)

func checkLength(field, value string, min, max int) error {
	length := utf8.RuneCountInString(strings.TrimSpace(value))
	if length < min || length > max {
		return models.NewValidationError(
			fmt.Sprintf("%s must be between %d and %d characters", field, min, max))
	}
	return nil
}

func validateEventFields(title, annotation, description string) error {
	if err := checkLength("Title", title, minTitleLen, maxTitleLen); err != nil {
		return err
	}
	if err := checkLength("Annotation", annotation, minAnnotationLen, maxAnnotationLen); err != nil {
		return err
	}
	return checkLength("Description", description, minDescriptionLen, maxDescriptionLen)
}

// pageOffset derives the record offset for page-driven lists. Callers page
// by from/size, so from is truncated down to a page boundary rather than
// used as a raw offset.
func pageOffset(from, size int) int {
	if size <= 0 {
		return 0
	}
	return from / size * size
}
