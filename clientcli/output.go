package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter formats results for output.
type Formatter interface {
	FormatUpload(w io.Writer, result *UploadResult) error
	FormatFetch(w io.Writer, result *FetchResult) error
	FormatRemove(w io.Writer, results []RemoveResult) error
	FormatQuery(w io.Writer, items []QueryItem) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatUpload formats a stored record as human-readable text.
func (f *HumanFormatter) FormatUpload(w io.Writer, result *UploadResult) error {
	if f.Quiet {
		return nil
	}
	_, _ = fmt.Fprintf(w, "Stored: %s.%s (owner %s)\n", result.Name, result.Extension, result.Owner)
	if result.Description != "" {
		_, _ = fmt.Fprintf(w, "  Description: %s\n", result.Description)
	}
	_, _ = fmt.Fprintf(w, "  Created:  %s\n", result.CreatedAt.Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintf(w, "  Modified: %s\n", result.ModifiedAt.Format("2006-01-02 15:04:05"))
	return nil
}

// FormatFetch formats a fetch result as human-readable text.
func (f *HumanFormatter) FormatFetch(w io.Writer, result *FetchResult) error {
	if f.Quiet {
		return nil
	}
	if result.LocalPath == "-" {
		_, _ = fmt.Fprintf(w, "Fetched: %s (%s)\n", result.FileName, formatSize(result.Size))
	} else {
		_, _ = fmt.Fprintf(w, "Fetched: %s -> %s (%s)\n", result.FileName, result.LocalPath, formatSize(result.Size))
	}
	_, _ = fmt.Fprintf(w, "  Content-Type: %s\n", result.ContentType)
	return nil
}

// FormatRemove formats remove results as human-readable text.
func (f *HumanFormatter) FormatRemove(w io.Writer, results []RemoveResult) error {
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			_, _ = fmt.Fprintf(w, "Error: %s - %v\n", r.Name, r.Err)
			continue
		}
		if !f.Quiet {
			_, _ = fmt.Fprintf(w, "Removed: %s\n", r.Name)
		}
	}
	return nil
}

// FormatQuery formats query results as human-readable text.
func (f *HumanFormatter) FormatQuery(w io.Writer, items []QueryItem) error {
	if len(items) == 0 {
		_, _ = fmt.Fprintln(w, "No objects found")
		return nil
	}

	maxNameLen := 4 // "NAME"
	maxOwnerLen := 5
	for i := range items {
		if len(items[i].Name) > maxNameLen {
			maxNameLen = len(items[i].Name)
		}
		if len(items[i].Owner) > maxOwnerLen {
			maxOwnerLen = len(items[i].Owner)
		}
	}
	if maxNameLen > 60 {
		maxNameLen = 60
	}
	if maxOwnerLen > 30 {
		maxOwnerLen = 30
	}

	_, _ = fmt.Fprintf(w, "%-*s  %-*s  %s\n", maxNameLen, "NAME", maxOwnerLen, "OWNER", "CREATED")
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", maxOwnerLen), strings.Repeat("-", 19))

	for i := range items {
		item := &items[i]
		name := item.Name
		if len(name) > maxNameLen {
			name = name[:maxNameLen-3] + "..."
		}
		owner := item.Owner
		if len(owner) > maxOwnerLen {
			owner = owner[:maxOwnerLen-3] + "..."
		}
		_, _ = fmt.Fprintf(w, "%-*s  %-*s  %s\n",
			maxNameLen, name,
			maxOwnerLen, owner,
			item.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}

	_, _ = fmt.Fprintf(w, "\n%d object(s)\n", len(items))
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatProfileList formats a list of profiles as human-readable text.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	maxNameLen := 4     // "NAME"
	maxEndpointLen := 8 // "ENDPOINT"
	for i := range profiles {
		if len(profiles[i].Name) > maxNameLen {
			maxNameLen = len(profiles[i].Name)
		}
		if len(profiles[i].Endpoint) > maxEndpointLen {
			maxEndpointLen = len(profiles[i].Endpoint)
		}
	}
	if maxNameLen > 20 {
		maxNameLen = 20
	}
	if maxEndpointLen > 50 {
		maxEndpointLen = 50
	}

	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %s\n", maxNameLen, "NAME", maxEndpointLen, "ENDPOINT", "OWNER")
	_, _ = fmt.Fprintf(w, "  %s  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", maxEndpointLen), strings.Repeat("-", 20))

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}

		name := p.Name
		if len(name) > maxNameLen {
			name = name[:maxNameLen-3] + "..."
		}

		endpoint := p.Endpoint
		if len(endpoint) > maxEndpointLen {
			endpoint = endpoint[:maxEndpointLen-3] + "..."
		}

		owner := p.Owner
		if owner == "" {
			owner = "(not set)"
		}

		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %s\n", marker, maxNameLen, name, maxEndpointLen, endpoint, owner)
	}

	return nil
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error {
	_, _ = fmt.Fprintf(w, "Name:     %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Endpoint: %s\n", profile.Endpoint)
	owner := profile.Owner
	if owner == "" {
		owner = "(not set)"
	}
	_, _ = fmt.Fprintf(w, "Owner:    %s\n", owner)
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatUpload formats a stored record as JSON.
func (f *JSONFormatter) FormatUpload(w io.Writer, result *UploadResult) error {
	return writeJSON(w, result)
}

// FormatFetch formats a fetch result as JSON.
func (f *JSONFormatter) FormatFetch(w io.Writer, result *FetchResult) error {
	return writeJSON(w, result)
}

// FormatRemove formats remove results as JSON.
func (f *JSONFormatter) FormatRemove(w io.Writer, results []RemoveResult) error {
	type jsonResult struct {
		Name    string `json:"name"`
		Removed bool   `json:"removed"`
		Error   string `json:"error,omitempty"`
	}

	output := struct {
		Results []jsonResult `json:"results"`
	}{
		Results: make([]jsonResult, len(results)),
	}

	for i, r := range results {
		jr := jsonResult{
			Name:    r.Name,
			Removed: r.Removed,
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		output.Results[i] = jr
	}

	return writeJSON(w, output)
}

// FormatQuery formats query results as JSON.
func (f *JSONFormatter) FormatQuery(w io.Writer, items []QueryItem) error {
	if items == nil {
		items = []QueryItem{}
	}
	return writeJSON(w, items)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// FormatProfileList formats a list of profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	type jsonProfile struct {
		Name     string `json:"name"`
		Endpoint string `json:"endpoint"`
		Owner    string `json:"owner,omitempty"`
		Default  bool   `json:"default,omitempty"`
	}

	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i := range profiles {
		p := &profiles[i]
		output.Profiles[i] = jsonProfile{
			Name:     p.Name,
			Endpoint: p.Endpoint,
			Owner:    p.Owner,
			Default:  p.Name == defaultName,
		}
	}

	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error {
	output := struct {
		Name     string `json:"name"`
		Endpoint string `json:"endpoint"`
		Owner    string `json:"owner,omitempty"`
		Default  bool   `json:"default"`
	}{
		Name:     profile.Name,
		Endpoint: profile.Endpoint,
		Owner:    profile.Owner,
		Default:  isDefault,
	}

	return writeJSON(w, output)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.1f TB", float64(bytes)/TB)
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
