package conversation

import (
	"fmt"
	"strings"
)

// Every user-facing sentence lives here. Keep lines short and direct.

// ── Greeting / Global ────────────────────────────────────────────

func LineTagline() string {
	return "snap a plate, get a recipe"
}

func LineWelcome() string {
	return "Drop a food photo into the terminal, or type help."
}

func LineBye() string {
	return "Bye. Happy cooking."
}

func LineUnknown(input string) string {
	return fmt.Sprintf("Not sure what %q means. Type help for the commands.", input)
}

// LineHelp lists every command.
func LineHelp() string {
	rows := [][2]string{
		{"<path> | upload <path>", "pick a photo and analyze it"},
		{"select <path>", "pick a photo without analyzing"},
		{"analyze", "analyze the selected photo"},
		{"clear", "drop the selected photo"},
		{"servings N", "set servings (1-12)"},
		{"calories N", "set a calorie target, empty to clear"},
		{"diet TEXT", "set dietary preferences, empty to clear"},
		{"generate [k=v ...]", "generate a recipe from the identified ingredients"},
		{"dismiss", "close the error message"},
		{"status", "show what has been identified so far"},
		{"health", "check the backend"},
		{"quit", "exit"},
	}
	var b strings.Builder
	b.WriteString("Commands:")
	for _, r := range rows {
		fmt.Fprintf(&b, "\n  %-24s %s", r[0], r[1])
	}
	return b.String()
}

// ── Photo ────────────────────────────────────────────────────────

func LineNoPhoto() string {
	return "No photo selected. Drop one in or use upload <path>."
}

func LineSelectionCleared() string {
	return "Photo cleared."
}

func LineAnalyzing(filename string) string {
	return fmt.Sprintf("Looking at %s...", filename)
}

// LineIdentified summarizes a successful analysis.
func LineIdentified(dish string, ingredients int) string {
	if dish == "" {
		return fmt.Sprintf("Found %d ingredient(s). Type generate for a recipe.", ingredients)
	}
	return fmt.Sprintf("That looks like %s, with %d ingredient(s). Type generate for a recipe.", dish, ingredients)
}

// ── Recipe ───────────────────────────────────────────────────────

func LineNoIngredients() string {
	return "Nothing to cook with yet. Analyze a photo first."
}

func LineGenerating(ingredients int) string {
	return fmt.Sprintf("Writing a recipe from %d ingredient(s)...", ingredients)
}

func LineSettings(values string) string {
	return "Recipe settings: " + values
}

// ── Workflow ─────────────────────────────────────────────────────

func LineBusy() string {
	return "Still working on the last request, hang on."
}

func LineDismissed() string {
	return "Dismissed."
}

func LineNothingToDismiss() string {
	return "No error to dismiss."
}

// ── Backend ──────────────────────────────────────────────────────

func LineBackendUp(baseURL string) string {
	return fmt.Sprintf("Backend at %s is up.", baseURL)
}

func LineBackendDown(baseURL, reason string) string {
	return fmt.Sprintf("Backend at %s is not answering (%s). Photos can still be selected.", baseURL, reason)
}
