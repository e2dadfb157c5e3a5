package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/filex"
	"github.com/dmitrijs2005/fittrack/internal/server/models"
)

const maxAvatarSize = 5 << 20

func (a *App) Profile(ctx context.Context) error {
	u, err := a.api.UserDetails(ctx)
	if err != nil {
		return err
	}
	printUser(a.out, u)

	p, err := a.api.Profile(ctx)
	if errors.Is(err, common.ErrNotFound) {
		fmt.Fprintln(a.out, "No profile yet, use setprofile to create one")
		return nil
	}
	if err != nil {
		return err
	}
	printProfile(a.out, p)
	return nil
}

// SetProfile creates the profile or replaces every field of the existing one.
func (a *App) SetProfile(ctx context.Context) error {
	var in models.ProfileInput
	var err error

	if in.Height, err = GetFloat(a.reader, "Height (cm)", a.out); err != nil {
		return err
	}
	if in.Weight, err = GetFloat(a.reader, "Weight (kg)", a.out); err != nil {
		return err
	}

	level, err := getSimpleText(a.reader, "Difficulty level (Beginner, Intermediate, Advanced)", a.out)
	if err != nil {
		return err
	}
	in.DifficultyLevel = models.DifficultyLevel(level)

	p, created, err := a.api.SaveProfile(ctx, in)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintln(a.out, "Profile created")
	} else {
		fmt.Fprintln(a.out, "Profile updated")
	}
	printProfile(a.out, p)
	return nil
}

// Avatar uploads an image file, or prints a download link when no path is
// given.
func (a *App) Avatar(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Path to image (empty to get a download link)", a.out)
	if err != nil {
		return err
	}

	if path == "" {
		url, err := a.api.AvatarDownloadURL(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, url)
		return nil
	}

	data, err := filex.ReadLimited(path, maxAvatarSize)
	if err != nil {
		return err
	}
	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		return fmt.Errorf("%w: %s is not an image (%s)", common.ErrValidation, path, ct)
	}

	if err := a.api.UploadAvatar(ctx, data, ct); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Avatar uploaded")
	return nil
}
