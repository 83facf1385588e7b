package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"ura-xlaw/internal/api"
	"ura-xlaw/internal/app"
	"ura-xlaw/internal/chat"
	"ura-xlaw/internal/config"
	"ura-xlaw/internal/domain"
	"ura-xlaw/internal/render"
	"ura-xlaw/internal/storage"
	"ura-xlaw/internal/terminal"
	"ura-xlaw/internal/ui"
)

const expiredNotice = "Phiên đăng nhập đã hết hạn. Vui lòng đăng nhập lại."

// repl is the terminal client: a login prompt followed by the chat loop
type repl struct {
	cfg     *config.Config
	ws      *app.Workspace
	display *terminal.Display
	view    *ui.ChatDisplay
	reader  *terminal.Reader
}

func runTerminal(ctx context.Context, cancel context.CancelFunc, cfg *config.Config) error {
	logger, closer := terminalLogger(cfg)
	defer closer.Close()

	color := terminal.IsTerminal()
	width := cfg.Terminal.Width
	style := cfg.Terminal.Style
	if color {
		width = min(width, terminal.Width())
	} else if style == "" {
		style = "notty"
	}

	renderer, err := render.NewTerminal(width, style)
	if err != nil {
		return err
	}

	r := &repl{
		cfg:     cfg,
		display: terminal.NewDisplay(os.Stdout, color),
		view:    ui.NewChatDisplay(os.Stdout, renderer, width),
		reader:  terminal.NewReader(os.Stdin),
	}
	r.ws = app.NewWorkspace(cfg, storage.NewFileStore(cfg.Session.Path), logger,
		chat.WithHooks(chat.Hooks{
			MessageAppended: r.onMessage,
			LoadingChanged:  r.onLoading,
		}),
	)

	if err := r.ws.Client.HealthCheck(ctx); err != nil {
		logger.Warn("backend health check failed", "error", err)
		if cfg.Mock.Enabled {
			r.display.PrintWarning("Không kết nối được máy chủ, đang dùng chế độ ngoại tuyến")
		} else {
			r.display.PrintWarning(fmt.Sprintf("Không kết nối được máy chủ: %v", err))
		}
	}

	if err := r.ws.Auth.Restore(); err != nil {
		r.display.PrintWarning(fmt.Sprintf("Không thể khôi phục phiên đăng nhập: %v", err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
		r.display.Cleanup()
		r.view.PrintGoodbye()
		os.Exit(0)
	}()

	defer r.display.Cleanup()
	return r.run(ctx)
}

func (r *repl) run(ctx context.Context) error {
	shown := false
	loggedOut := false
	for {
		if !r.ws.Auth.State().IsAuthenticated() {
			if shown && !loggedOut {
				r.display.PrintWarning(expiredNotice)
			}
			if err := r.login(ctx); err != nil {
				break
			}
			shown, loggedOut = false, false
		}
		if !shown {
			r.start()
			shown = true
		}

		r.display.PrintPrompt("\n❯ ")
		line, err := r.reader.ReadLine()
		if err != nil {
			break
		}

		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			var exit bool
			exit, loggedOut = r.command(ctx, line)
			if exit {
				break
			}
			continue
		}
		r.send(ctx, line)
	}

	r.view.PrintGoodbye()
	return nil
}

// login prompts until a login succeeds. It fails only when input ends.
func (r *repl) login(ctx context.Context) error {
	r.view.PrintLoginHeader(r.cfg.API.BaseURL)
	for {
		r.display.PrintPrompt("Mã nhân viên: ")
		staffID, err := r.reader.ReadLine()
		if err != nil {
			return err
		}
		if staffID == "" {
			continue
		}

		r.display.PrintPrompt("Mật khẩu: ")
		password, err := r.reader.ReadPassword(os.Stdout)
		if err != nil {
			return err
		}

		r.display.ShowSpinner("Đang đăng nhập...")
		err = r.ws.Auth.Login(ctx, staffID, password)
		r.display.StopSpinner()
		if err != nil {
			r.display.PrintError(errors.New(r.ws.Auth.State().Err))
			continue
		}
		return nil
	}
}

// start shows the banner and the transcript so far
func (r *repl) start() {
	if terminal.IsTerminal() {
		r.view.ClearScreen()
	}
	r.view.PrintBanner(r.ws.Auth.State().User)
	r.view.PrintHistory(r.ws.Chat.Messages())
}

func (r *repl) send(ctx context.Context, text string) {
	start := time.Now()
	_, err := r.ws.Chat.Send(ctx, text)
	switch {
	case err == nil:
		r.view.PrintElapsed(time.Since(start))
	case errors.Is(err, api.ErrUnauthorized):
		// the loop sends the user back to the login prompt
	case errors.Is(err, chat.ErrBusy):
		r.display.PrintWarning(chat.LoadingText)
	default:
		r.display.PrintError(err)
	}
}

func (r *repl) onMessage(msg domain.Message) {
	r.display.StopSpinner()
	r.view.PrintMessage(msg)
}

func (r *repl) onLoading(loading bool) {
	if loading {
		r.display.ShowSpinner(chat.LoadingText)
		return
	}
	r.display.StopSpinner()
}

// command runs a slash command. exit ends the program; loggedOut reports a
// deliberate logout so no expiry notice is shown.
func (r *repl) command(ctx context.Context, line string) (exit, loggedOut bool) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	r.ws.Disclosure.Close()

	switch name {
	case "/exit", "/quit":
		return true, false
	case "/help":
		r.view.PrintHelp()
	case "/clear":
		r.view.ClearScreen()
		r.view.PrintBanner(r.ws.Auth.State().User)
	case "/history":
		r.view.PrintHistory(r.ws.Chat.Messages())
	case "/new":
		if err := r.ws.Chat.Reset(ctx); err != nil {
			r.display.PrintError(err)
			break
		}
		r.ws.Disclosure.Reset()
		r.display.PrintSuccess("Đã bắt đầu cuộc trò chuyện mới")
		r.view.PrintHistory(r.ws.Chat.Messages())
	case "/logout":
		r.ws.Auth.Logout(ctx)
		r.ws.Chat.Clear()
		r.ws.Disclosure.Reset()
		r.display.PrintInfo("Đã đăng xuất")
		return false, true
	case "/me":
		r.showProfile(ctx)
	case "/refs":
		r.view.PrintQuickRefs()
	case "/ask":
		n, err := strconv.Atoi(arg)
		sc, ok := chat.ShortcutAt(n)
		if err != nil || !ok {
			r.display.PrintWarning(fmt.Sprintf("Chọn tác vụ từ 1 đến %d (xem /refs)", len(chat.Shortcuts)))
			break
		}
		r.send(ctx, sc.Question)
	case "/more":
		rel, ok := r.ws.Chat.FindRelationship(arg)
		if !ok {
			r.display.PrintWarning("Không tìm thấy văn bản " + arg + " trong cuộc trò chuyện")
			break
		}
		r.ws.Disclosure.Toggle(rel.DocumentID)
		r.view.PrintRelationship(rel, r.ws.Disclosure)
	case "/doc":
		r.showDocument(ctx, arg)
	case "/search":
		r.search(ctx, arg)
	default:
		r.display.PrintWarning("Lệnh không hợp lệ. Gõ /help để xem các lệnh")
	}
	return false, false
}

func (r *repl) showProfile(ctx context.Context) {
	user, err := r.ws.Auth.Refresh(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return
		}
		r.display.PrintWarning("Không thể tải hồ sơ từ máy chủ, hiển thị thông tin đã lưu")
		if cached := r.ws.Auth.State().User; cached != nil {
			r.view.PrintProfile(*cached)
		}
		return
	}
	r.view.PrintProfile(*user)
}

// showDocument opens the full content of a document from the transcript,
// falling back to the backend
func (r *repl) showDocument(ctx context.Context, id string) {
	if id == "" {
		r.display.PrintWarning("Cú pháp: /doc <mã văn bản>")
		return
	}

	doc, ok := r.ws.Chat.FindDocument(id)
	if !ok {
		if rel, found := r.ws.Chat.FindRelationship(id); found {
			doc, ok = domain.RelatedDocument{DocumentID: rel.DocumentID, Content: rel.Content}, true
		}
	}
	if !ok {
		fetched, err := r.ws.Client.GetDocument(ctx, id)
		if err != nil {
			if !errors.Is(err, api.ErrUnauthorized) {
				r.display.PrintWarning("Không tìm thấy văn bản " + id)
			}
			return
		}
		doc = *fetched
	}

	r.ws.Disclosure.Open(id)
	r.view.PrintDocument(doc)
}

func (r *repl) search(ctx context.Context, query string) {
	if query == "" {
		r.display.PrintWarning("Cú pháp: /search <từ khóa>")
		return
	}

	r.display.ShowSpinner("Đang tìm kiếm...")
	results, err := r.ws.Client.SearchDocuments(ctx, query)
	r.display.StopSpinner()
	if err != nil {
		if !errors.Is(err, api.ErrUnauthorized) {
			r.display.PrintWarning("Không thể tìm kiếm văn bản lúc này")
		}
		return
	}
	r.view.PrintSearchResults(results)
}
