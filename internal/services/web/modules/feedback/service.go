package feedback

import (
	"context"
	"log"

	"github.com/louisbranch/pageshell/internal/services/web/clientstate"
	"github.com/louisbranch/pageshell/internal/services/web/queries"
	"github.com/louisbranch/pageshell/internal/services/web/uistate"
)

type service struct{}

func newService() service {
	return service{}
}

// submit sends text on behalf of the client's signed-in user, or anonymously,
// and records the outcome on the feedback modal. Invalid text never reaches
// the backend and leaves the modal untouched.
func (service) submit(ctx context.Context, client *clientstate.Client, text string) (uistate.State, error) {
	if err := queries.ValidateFeedback(text); err != nil {
		return client.UI.State(), err
	}
	userID := ""
	if user := client.Auth.CurrentUser(ctx); user != nil {
		userID = user.ID
	}
	if err := client.Feedback.Submit(ctx, text, userID); err != nil {
		log.Printf("feedback submit client=%s: %v", client.ID, err)
		return client.UI.SetFeedbackError(true), err
	}
	return client.UI.SetFeedbackSuccess(true), nil
}
