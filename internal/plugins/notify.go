package plugins

import (
	"context"

	"github.com/gen2brain/beeep"
)

// Notifications exposes system notifications to the GUI layer.
type Notifications struct {
	appName string
}

// NewNotifications creates the notifications plugin. appName is the fallback
// notification title.
func NewNotifications(appName string) *Notifications {
	return &Notifications{appName: appName}
}

func (n *Notifications) Name() string { return "notifications" }

func (n *Notifications) Init() error { return nil }

func (n *Notifications) Actions() map[string]Action {
	return map[string]Action{
		"send": {
			Description: "Show a system notification with a title and message.",
			Run: func(_ context.Context, args map[string]string) (any, error) {
				title := args["title"]
				if title == "" {
					title = n.appName
				}
				if err := beeep.Notify(title, args["message"], ""); err != nil {
					return nil, err
				}
				return nil, nil
			},
		},
		"alert": {
			Description: "Show an alert notification with the system alert sound.",
			Run: func(_ context.Context, args map[string]string) (any, error) {
				title := args["title"]
				if title == "" {
					title = n.appName
				}
				if err := beeep.Alert(title, args["message"], ""); err != nil {
					return nil, err
				}
				return nil, nil
			},
		},
		"beep": {
			Description: "Play the default system beep.",
			Run: func(_ context.Context, _ map[string]string) (any, error) {
				if err := beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
					return nil, err
				}
				return nil, nil
			},
		},
	}
}
