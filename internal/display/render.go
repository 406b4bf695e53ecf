package display

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/platechef/internal/domain"
	"github.com/hammamikhairi/platechef/internal/upload"
)

// RenderPreview describes the selected photo.
func RenderPreview(img *domain.UploadedImage) string {
	if img == nil {
		return secondaryStyle.Render("  no photo selected")
	}

	meta := []string{img.MIMEType, upload.HumanSize(img.Size)}
	if img.Width > 0 && img.Height > 0 {
		meta = append(meta, fmt.Sprintf("%dx%d", img.Width, img.Height))
	}

	var b strings.Builder
	b.WriteString(headingStyle.Render("  Photo: " + img.Filename))
	b.WriteByte('\n')
	b.WriteString(secondaryStyle.Render("  " + strings.Join(meta, " · ")))
	return b.String()
}

// RenderIngredients lists the identified ingredient names on one line.
func RenderIngredients(names []string) string {
	if len(names) == 0 {
		return secondaryStyle.Render("  No ingredients identified yet.")
	}
	return labelStyle.Render("  Ingredients: ") + primaryStyle.Render(strings.Join(names, ", "))
}

// RenderDish shows the full analysis result.
func RenderDish(d *domain.IdentifiedDish) string {
	if d == nil {
		return ""
	}

	var b strings.Builder
	name := d.DishName
	if name == "" {
		name = "Unknown dish"
	}
	b.WriteString(headingStyle.Render("  " + name))
	b.WriteByte('\n')

	var meta []string
	if d.Type != "" {
		meta = append(meta, d.Type)
	}
	if d.Origin != "" {
		meta = append(meta, d.Origin)
	}
	if d.CookingTime != "" {
		meta = append(meta, d.CookingTime)
	}
	if len(meta) > 0 {
		b.WriteString(secondaryStyle.Render("  " + strings.Join(meta, " · ")))
		b.WriteByte('\n')
	}

	if len(d.Ingredients) > 0 {
		b.WriteByte('\n')
		b.WriteString(labelStyle.Render("  Ingredients"))
		b.WriteByte('\n')
		for _, ing := range d.Ingredients {
			line := "    - " + ing.Name
			var extra []string
			if ing.Quantity != "" {
				extra = append(extra, ing.Quantity)
			}
			if ing.State != "" {
				extra = append(extra, ing.State)
			}
			if len(extra) > 0 {
				line += secondaryStyle.Render(" (" + strings.Join(extra, ", ") + ")")
			}
			b.WriteString(primaryStyle.Render(line))
			b.WriteByte('\n')
		}
	}

	if len(d.Preparation) > 0 {
		b.WriteByte('\n')
		b.WriteString(labelStyle.Render("  How it's made"))
		b.WriteByte('\n')
		for i, step := range d.Preparation {
			b.WriteString(primaryStyle.Render(fmt.Sprintf("    %d. %s", i+1, step)))
			b.WriteByte('\n')
		}
	}

	if d.ServingSuggestion != "" {
		b.WriteByte('\n')
		b.WriteString(secondaryStyle.Render("  Serve with: " + d.ServingSuggestion))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderRecipe shows a generated recipe with numbered instructions.
func RenderRecipe(r *domain.GeneratedRecipe) string {
	if r == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(headingStyle.Render("  " + r.Name))
	b.WriteByte('\n')
	if r.Description != "" {
		b.WriteString(chatStyle.Render("  " + r.Description))
		b.WriteByte('\n')
	}

	var meta []string
	if r.PrepTime != "" {
		meta = append(meta, "prep "+r.PrepTime)
	}
	if r.Servings > 0 {
		meta = append(meta, fmt.Sprintf("serves %d", r.Servings))
	}
	if r.Calories != "" {
		meta = append(meta, r.Calories)
	}
	if len(meta) > 0 {
		b.WriteString(secondaryStyle.Render("  " + strings.Join(meta, " · ")))
		b.WriteByte('\n')
	}

	if len(r.Ingredients) > 0 {
		b.WriteByte('\n')
		b.WriteString(labelStyle.Render("  Ingredients"))
		b.WriteByte('\n')
		for _, ing := range r.Ingredients {
			b.WriteString(primaryStyle.Render("    - " + ing))
			b.WriteByte('\n')
		}
	}

	if len(r.Instructions) > 0 {
		b.WriteByte('\n')
		b.WriteString(labelStyle.Render("  Instructions"))
		b.WriteByte('\n')
		for i, step := range r.Instructions {
			b.WriteString(primaryStyle.Render(fmt.Sprintf("    %d. %s", i+1, step)))
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderError is the dismissible error banner.
func RenderError(msg string) string {
	if msg == "" {
		return ""
	}
	return urgentOutputStyle.Render("  ✗ "+msg) + secondaryStyle.Render("   (type dismiss to close)")
}

// RenderHealth summarizes a backend health probe.
func RenderHealth(h *domain.BackendHealth) string {
	if h == nil {
		return urgentOutputStyle.Render("  backend: unreachable")
	}
	status := h.Status
	if status == "" {
		status = "unknown"
	}
	line := labelStyle.Render("  backend: ")
	if h.OK() {
		line += okStyle.Render(status)
	} else {
		line += urgentOutputStyle.Render(status)
	}
	if !h.GeminiConfigured {
		line += secondaryStyle.Render("  (vision model not configured)")
	}
	if h.Message != "" {
		line += secondaryStyle.Render("  " + h.Message)
	}
	return line
}
