package interaction

import (
	"context"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/spigell/tech-interviewer/internal/interview"
)

// Profile is what the operator picks before the interview starts.
type Profile struct {
	Role      string
	TechStack []string
	Level     interview.Level
}

// AskProfile asks for role, technologies and level, applying the defaults for
// blank or invalid answers.
func (c *Console) AskProfile(ctx context.Context) (Profile, error) {
	role, err := c.ReadLine(ctx, "Role (default: "+interview.DefaultRole+")")
	if err != nil {
		return Profile{}, err
	}

	tech, err := c.ReadLine(ctx, "Technologies, comma separated (default: "+interview.DefaultTech+")")
	if err != nil {
		return Profile{}, err
	}

	level, err := c.askLevel(ctx)
	if err != nil {
		return Profile{}, err
	}

	return Profile{
		Role:      interview.NormalizeRole(role),
		TechStack: interview.ParseTechStack(tech),
		Level:     level,
	}, nil
}

func (c *Console) askLevel(ctx context.Context) (interview.Level, error) {
	levels := interview.Levels()
	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = string(l)
	}

	if c.interactive {
		sel := promptui.Select{
			Label:     "Candidate level",
			Items:     names,
			CursorPos: 1,
		}
		_, picked, err := sel.Run()
		if err != nil {
			return "", mapPromptError(err)
		}
		return interview.NormalizeLevel(picked), nil
	}

	raw, err := c.ReadLine(ctx, "Level ("+strings.Join(names, "/")+", default: "+string(interview.LevelIntermediate)+")")
	if err != nil {
		return "", err
	}
	return interview.NormalizeLevel(raw), nil
}
