package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/dictate-sh/dictate/internal/audiocap"
	"github.com/dictate-sh/dictate/internal/cli"
	"github.com/dictate-sh/dictate/internal/config"
	"github.com/dictate-sh/dictate/internal/controller"
	"github.com/dictate-sh/dictate/internal/dictation"
	"github.com/dictate-sh/dictate/internal/doctor"
	"github.com/dictate-sh/dictate/internal/fsm"
	"github.com/dictate-sh/dictate/internal/hotkey"
	"github.com/dictate-sh/dictate/internal/indicator"
	"github.com/dictate-sh/dictate/internal/inject"
	"github.com/dictate-sh/dictate/internal/ipc"
	"github.com/dictate-sh/dictate/internal/logging"
	"github.com/dictate-sh/dictate/internal/transcribe"
	"github.com/dictate-sh/dictate/internal/version"
)

// Runner holds process-level dependencies used by command handlers.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// Execute is the package entrypoint used by cmd/dictate/main.go.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

// Execute parses CLI arguments, loads config/logging, and dispatches a command.
func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("dictate"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("dictate"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandDevices:
		return r.commandDevices()
	case cli.CommandStatus:
		return r.commandStatus(ctx)
	case cli.CommandStop:
		return r.forwardOrFail(ctx, "stop")
	case cli.CommandCancel:
		return r.forwardOrFail(ctx, "cancel")
	case cli.CommandRun:
		return r.commandRun(ctx, cfgLoaded.Config, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

// commandDevices prints discovered PortAudio input devices.
func (r Runner) commandDevices() int {
	devices, err := audiocap.ListDevices()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if len(devices) == 0 {
		fmt.Fprintln(r.Stdout, "no audio devices found")
		return 1
	}

	for _, device := range devices {
		defaultMark := " "
		if device.Default {
			defaultMark = "*"
		}
		fmt.Fprintf(
			r.Stdout,
			"%s id=%s | name=%q | channels=%d | rates=%v\n",
			defaultMark,
			device.ID,
			device.Name,
			device.Channels,
			device.SupportedRates,
		)
	}

	return 0
}

// commandStatus queries the running service (if any) and prints its state.
func (r Runner) commandStatus(ctx context.Context) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintln(r.Stdout, "idle")
		return 0
	}

	resp, handled, err := tryForward(ctx, socketPath, "status")
	if handled {
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		if resp.State == "" {
			resp.State = "idle"
		}
		fmt.Fprintln(r.Stdout, resp.State)
		return 0
	}

	fmt.Fprintln(r.Stdout, "idle")
	return 0
}

// forwardOrFail forwards a command to the running service and fails when
// no service is listening.
func (r Runner) forwardOrFail(ctx context.Context, command string) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	resp, handled, err := tryForward(ctx, socketPath, command)
	if !handled {
		fmt.Fprintf(r.Stderr, "error: no active dictate session\n")
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	return 0
}

// commandRun acquires the single-instance socket, wires the app state
// machine, hotkey binder, text injector, and indicator, then blocks until
// ctx is canceled (typically by a process signal).
func (r Runner) commandRun(ctx context.Context, cfg config.Config, logger *slog.Logger) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8, nil)
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			fmt.Fprintf(r.Stderr, "error: dictate is already running\n")
			return 1
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	appFSM := fsm.New()

	indicatorCtl := indicator.NewHyprNotify(cfg.Indicator, logger)
	bridge := indicator.NewBridge(indicatorCtl)
	go fsm.RunEmitter(runCtx, appFSM, bridge.HandleApp)
	go fsm.RunTimeoutHandler(runCtx, appFSM, time.Duration(cfg.Session.ProcessingTimeoutS)*time.Second, bridge.HandleApp)

	injector := inject.NewInjector(inject.WtypeSimulator{}, inject.NewClipboardManager(), inject.Config{
		Strategy:      inject.Strategy(cfg.Injection.Strategy),
		AutoThreshold: cfg.Injection.AutoThreshold,
		PasteDelay:    time.Duration(cfg.Injection.PasteDelayMS) * time.Millisecond,
	})

	baseOpts := transcribe.Options{
		DeviceID:          cfg.Session.AudioInput,
		EnableAudioDump:   cfg.Debug.EnableAudioDump,
		ModelID:           cfg.Session.ModelID,
		LanguageCode:      cfg.Session.LanguageCode,
		IncludeTimestamps: cfg.Session.IncludeTimestamps,
		VadCommitStrategy: cfg.Session.VadCommitStrategy,
		TimeoutMs:         cfg.Session.ConnectTimeoutMS,
	}

	sess := dictation.New(appFSM, controller.DefaultSessionFactory, baseOpts, injector, dictation.Config{
		AutoInject:        cfg.Injection.AutoInject,
		PreInjectionDelay: time.Duration(cfg.Injection.PreInjectionDelayMS) * time.Millisecond,
	}, bridge.HandleSession)
	defer sess.Close()

	binder, err := hotkey.New(appFSM, sess, apiKeyFunc(cfg), hotkey.Config{
		PushToTalk: cfg.Hotkey.PushToTalk,
		Cancel:     cfg.Hotkey.Cancel,
	})
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if err := binder.Register(); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- ipc.Serve(runCtx, listener, &serviceHandler{appFSM: appFSM, session: sess})
	}()

	logger.Info("service started", "push_to_talk", cfg.Hotkey.PushToTalk, "cancel", cfg.Hotkey.Cancel)
	binder.Run(runCtx)

	cancel()
	if serverErr := <-serverErrCh; serverErr != nil {
		fmt.Fprintf(r.Stderr, "error: ipc server failed: %v\n", serverErr)
		return 1
	}

	logger.Info("service stopped")
	return 0
}

// apiKeyFunc resolves the ElevenLabs API key at each push-to-talk press:
// the config value takes priority, falling back to ELEVENLABS_API_KEY so
// the key never has to live in a config file on disk.
func apiKeyFunc(cfg config.Config) hotkey.APIKeyFunc {
	return func() string {
		if strings.TrimSpace(cfg.Session.APIKey) != "" {
			return cfg.Session.APIKey
		}
		return os.Getenv("ELEVENLABS_API_KEY")
	}
}

// serviceHandler implements ipc.Handler for a running commandRun instance:
// status reads the app state machine directly, stop/cancel dispatch to the
// owned dictation.Session.
type serviceHandler struct {
	appFSM  *fsm.Machine
	session *dictation.Session
}

func (h *serviceHandler) Handle(_ context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case "status":
		return ipc.Response{OK: true, State: string(h.appFSM.Current().Kind)}
	case "stop":
		if err := h.session.Stop(); err != nil {
			return ipc.Response{OK: false, Error: err.Error()}
		}
		return ipc.Response{OK: true, Message: "stopped"}
	case "cancel":
		if err := h.session.Cancel(); err != nil {
			return ipc.Response{OK: false, Error: err.Error()}
		}
		return ipc.Response{OK: true, Message: "cancelled"}
	default:
		return ipc.Response{OK: false, Error: fmt.Sprintf("unsupported command %q", req.Command)}
	}
}

// tryForward attempts to send a command to the running service and
// classifies the outcome.
//
// handled=false means there was no running service to handle the request.
func tryForward(ctx context.Context, socketPath string, command string) (ipc.Response, bool, error) {
	resp, err := ipc.Send(ctx, socketPath, ipc.Request{Command: command}, 220*time.Millisecond)
	if err == nil {
		if resp.OK {
			return resp, true, nil
		}
		return resp, true, errors.New(resp.Error)
	}

	if isSocketMissing(err) {
		return ipc.Response{}, false, nil
	}
	if isConnectionRefused(err) {
		return ipc.Response{}, false, nil
	}

	return ipc.Response{}, true, fmt.Errorf("forward command %q: %w", command, err)
}

// isSocketMissing reports whether forwarding failed because the service socket is absent.
func isSocketMissing(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, os.ErrNotExist) ||
		strings.Contains(err.Error(), "no such file or directory")
}

// isConnectionRefused reports whether forwarding failed because no service is listening.
func isConnectionRefused(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.ECONNREFUSED)
}
