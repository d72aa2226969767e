package middleware

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

// ValidateSeverity checks the severity threshold against shellcheck's levels
func ValidateSeverity(severity string) error {
	if severity == "" {
		return nil // default applies
	}
	allowed := map[string]bool{
		"style":   true,
		"info":    true,
		"warning": true,
		"error":   true,
	}
	if !allowed[strings.ToLower(severity)] {
		return fmt.Errorf("invalid severity: %s (allowed: style, info, warning, error)", severity)
	}
	return nil
}

// ValidateDockerTag validates a shellcheck image tag
func ValidateDockerTag(tag string) error {
	if tag == "" {
		return nil // Optional field
	}
	pattern := `^[a-zA-Z0-9._-]{1,128}$`
	matched, _ := regexp.MatchString(pattern, tag)
	if !matched {
		return fmt.Errorf("invalid docker tag format")
	}
	return nil
}

// ValidatePath validates file paths (for security)
func ValidatePath(path string) error {
	if path == "" {
		return nil // Optional field
	}

	cleaned := filepath.Clean(path)

	// Block path traversal attempts
	if strings.Contains(cleaned, "..") {
		return fmt.Errorf("path traversal detected")
	}

	// Block absolute paths to sensitive directories
	blocked := []string{"/etc", "/proc", "/sys", "/dev", "/root", "/boot"}
	for _, b := range blocked {
		if strings.HasPrefix(cleaned, b) {
			return fmt.Errorf("access to %s is not allowed", b)
		}
	}

	// Block dangerous patterns
	dangerous := []string{"$(", "`", "&", "|", ";", "\n", "\r"}
	for _, d := range dangerous {
		if strings.Contains(path, d) {
			return fmt.Errorf("invalid characters in path")
		}
	}

	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateTenantID validates tenant ID format
func ValidateTenantID(tenant string) error {
	if tenant == "" {
		return fmt.Errorf("tenant ID cannot be empty")
	}

	// Allow alphanumeric, dash, underscore (max 64 chars)
	pattern := `^[a-zA-Z0-9_-]{1,64}$`
	matched, _ := regexp.MatchString(pattern, tenant)
	if !matched {
		return fmt.Errorf("invalid tenant ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}

	return nil
}

// ValidateCheckID validates check ID format
func ValidateCheckID(checkID string) error {
	if checkID == "" {
		return fmt.Errorf("check ID cannot be empty")
	}

	// UUID pattern with the -shellcheck suffix
	pattern := `^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}-shellcheck$`
	matched, _ := regexp.MatchString(pattern, checkID)
	if !matched {
		return fmt.Errorf("invalid check ID format")
	}

	return nil
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidateDays validates days parameter
func ValidateDays(days int) int {
	if days <= 0 {
		return 7 // default
	}
	if days > 365 {
		return 365 // max 1 year
	}
	return days
}
