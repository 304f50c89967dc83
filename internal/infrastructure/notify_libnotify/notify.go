package notify_libnotify

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const appName = "lambda-api-ci"

type Options struct {
	Urgency string
	Expire  time.Duration
}

// Notifier shells out to notify-send. A soft notifier swallows failures so a
// headless host can still run the watcher.
type Notifier struct {
	soft bool
	bin  string
	opt  Options
}

func New(opt Options) *Notifier     { return &Notifier{bin: "notify-send", opt: opt} }
func NewSoft(opt Options) *Notifier { return &Notifier{soft: true, bin: "notify-send", opt: opt} }

func (n *Notifier) Notify(ctx context.Context, title, body, url string) error {
	return n.NotifyWith(ctx, title, body, url, n.opt)
}

func (n *Notifier) NotifyWith(ctx context.Context, title, body, url string, opt Options) error {
	cmd := exec.CommandContext(ctx, n.bin, args(title, body, url, opt)...)
	if err := cmd.Run(); err != nil {
		if n.soft {
			return nil
		}
		return err
	}

	return nil
}

func args(title, body, url string, opt Options) []string {
	if strings.TrimSpace(url) != "" {
		if body == "" {
			body = url
		} else {
			body = body + "\n" + url
		}
	}

	out := []string{"--app-name=" + appName}
	if opt.Urgency != "" {
		out = append(out, "--urgency="+opt.Urgency)
	}
	if opt.Expire > 0 {
		out = append(out, "--expire-time="+strconv.Itoa(int(opt.Expire/time.Millisecond)))
	}

	return append(out, title, body)
}
