package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/snapline/internal/models"
)

// SendSnap uploads a photo and, when a chat is open, posts a message
// referencing it. Usage: snap <file> [caption...].
func (a *App) SendSnap(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in")
		return nil
	}
	if len(args) == 0 {
		printlnFn("Usage: snap <file> [caption]")
		return nil
	}

	path := args[0]
	caption := strings.Join(args[1:], " ")

	image, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	snap, err := a.apiClient.UploadSnap(ctx, caption, filepath.Base(path), image)
	if err != nil {
		return err
	}
	printlnFn("Uploaded snap", snap.ID)

	chatID := a.openChatID()
	if chatID == "" {
		return nil
	}

	msg := models.Message{
		ChatID:   chatID,
		SenderID: a.currentUser(),
		Text:     caption,
		SnapID:   snap.ID,
	}
	id, err := a.repo.SendMessage(ctx, msg)
	if err != nil {
		return err
	}
	printlnFn("Sent", id)
	return nil
}
