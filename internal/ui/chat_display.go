package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"ura-xlaw/internal/api"
	"ura-xlaw/internal/chat"
	"ura-xlaw/internal/domain"
	"ura-xlaw/internal/format"
	"ura-xlaw/internal/render"
)

// ChatDisplay prints the transcript and side panels of the terminal client
type ChatDisplay struct {
	out      io.Writer
	width    int
	renderer *render.Terminal
}

// NewChatDisplay creates a display writing to out. renderer turns message
// bodies into terminal text.
func NewChatDisplay(out io.Writer, renderer *render.Terminal, width int) *ChatDisplay {
	return &ChatDisplay{out: out, width: width, renderer: renderer}
}

// ClearScreen clears the terminal
func (d *ChatDisplay) ClearScreen() {
	fmt.Fprint(d.out, "\033[2J\033[H")
}

// PrintLoginHeader shows the sign-in screen title
func (d *ChatDisplay) PrintLoginHeader(apiURL string) {
	fmt.Fprintln(d.out, boxStyle.Render(
		titleStyle.Render("URA-xLaw")+"\n"+
			dimStyle.Render("Trợ lý pháp lý cho nhân viên ngân hàng")))
	fmt.Fprintln(d.out, dimStyle.Render("Máy chủ: "+apiURL))
	fmt.Fprintln(d.out)
}

// PrintBanner shows who is signed in and how to get help
func (d *ChatDisplay) PrintBanner(user *domain.User) {
	title := titleStyle.Render("Trợ lý Pháp lý URA")
	meta := dimStyle.Render("Model: URA-Agent-v2.1 • KB cập nhật: 09/08/2025")

	who := ""
	if user != nil {
		who = fmt.Sprintf("%s · %s", user.FullName, user.Department)
	}
	fmt.Fprintln(d.out, boxStyle.Width(min(d.width, 80)-2).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, meta, dimStyle.Render(who))))
	fmt.Fprintln(d.out, dimStyle.Render("Gõ /help để xem các lệnh, /exit để thoát"))
}

// PrintMessage prints one transcript entry
func (d *ChatDisplay) PrintMessage(msg domain.Message) {
	label := "URA"
	if msg.IsUser() {
		label = "Bạn"
	}
	fmt.Fprintf(d.out, "\n%s\n", headerStyle.Render(fmt.Sprintf("┌─ %s · %s", label, msg.CreatedAt.Format("15:04:05"))))

	body := d.renderer.Render(msg)
	for _, line := range strings.Split(body, "\n") {
		fmt.Fprintf(d.out, "%s %s\n", dimStyle.Render("│"), line)
	}
	fmt.Fprintln(d.out, dimStyle.Render("└"))
}

// PrintHistory prints the whole transcript
func (d *ChatDisplay) PrintHistory(msgs []domain.Message) {
	for _, msg := range msgs {
		d.PrintMessage(msg)
	}
}

// PrintQuickRefs shows the quick-reference panel and the shortcut chips
func (d *ChatDisplay) PrintQuickRefs() {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Tham chiếu nhanh"))
	for _, ref := range chat.QuickReferences {
		fmt.Fprintf(&sb, "\n📄 %s\n   %s", ref.Title, dimStyle.Render(ref.Description))
	}
	sb.WriteString("\n\n" + titleStyle.Render("Tác vụ Nâng cao"))
	for i, sc := range chat.Shortcuts {
		fmt.Fprintf(&sb, "\n/ask %d  %s", i+1, sc.Label)
	}
	fmt.Fprintln(d.out, boxStyle.Render(sb.String()))
}

// PrintRelationship shows a relationship's content as the disclosure state
// dictates, with a hint when it can be expanded or collapsed.
func (d *ChatDisplay) PrintRelationship(rel domain.Relationship, disclosure *render.Disclosure) {
	text, toggle := disclosure.Excerpt(rel.DocumentID, rel.Content)
	fmt.Fprintf(d.out, "%s %s\n", titleStyle.Render(rel.DocumentID), dimStyle.Render(rel.RelaType.Title()))
	fmt.Fprintln(d.out, text)
	if toggle {
		hint := "Xem thêm"
		if disclosure.IsExpanded(rel.DocumentID) {
			hint = "Thu gọn"
		}
		fmt.Fprintln(d.out, dimStyle.Render(fmt.Sprintf("/more %s · %s", rel.DocumentID, hint)))
	}
}

// PrintDocument shows the full-content dialog for a document
func (d *ChatDisplay) PrintDocument(doc domain.RelatedDocument) {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(documentTitle(doc)))
	if badge := StatusBadge(doc.Status); badge != "" {
		sb.WriteString("  " + badge)
	}
	if !doc.EffectiveDate.IsZero() {
		sb.WriteString("\n" + dimStyle.Render("Hiệu lực từ: "+doc.EffectiveDate.String()))
	}
	if !doc.ExpiredDate.IsZero() {
		sb.WriteString("\n" + dimStyle.Render("Hết hiệu lực từ: "+doc.ExpiredDate.String()))
	}
	if doc.Content != "" {
		sb.WriteString("\n\n" + doc.Content)
	}
	fmt.Fprintln(d.out, boxStyle.Width(min(d.width, 100)-2).Render(sb.String()))
}

// PrintSearchResults lists document search hits
func (d *ChatDisplay) PrintSearchResults(results []api.DocumentSummary) {
	if len(results) == 0 {
		fmt.Fprintln(d.out, dimStyle.Render("Không tìm thấy văn bản phù hợp"))
		return
	}
	for i, r := range results {
		line := fmt.Sprintf("%d. %s (%s)", i+1, r.Title, r.DocumentID)
		if badge := StatusBadge(r.Status); badge != "" {
			line += " " + badge
		}
		fmt.Fprintln(d.out, line)
		if r.Snippet != "" {
			fmt.Fprintln(d.out, dimStyle.Render("   "+format.Excerpt(r.Snippet, format.ExcerptLength)))
		}
	}
}

// PrintProfile shows the signed-in staff member
func (d *ChatDisplay) PrintProfile(user domain.User) {
	rows := [][2]string{
		{"Mã nhân viên", user.StaffID},
		{"Họ tên", user.FullName},
		{"Phòng ban", user.Department},
		{"Vai trò", user.Role},
		{"Quyền", strings.Join(user.Permissions, ", ")},
	}
	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s %s", dimStyle.Render(row[0]+":"), row[1])
	}
	fmt.Fprintln(d.out, boxStyle.Render(sb.String()))
}

// PrintHelp lists the commands
func (d *ChatDisplay) PrintHelp() {
	cmds := [][2]string{
		{"/help", "Hiển thị trợ giúp"},
		{"/refs", "Tham chiếu nhanh và tác vụ nâng cao"},
		{"/ask <n>", "Gửi câu hỏi mẫu số n"},
		{"/more <mã văn bản>", "Xem thêm hoặc thu gọn nội dung quan hệ"},
		{"/doc <mã văn bản>", "Xem toàn văn tài liệu liên quan"},
		{"/search <từ khóa>", "Tìm kiếm văn bản"},
		{"/history", "Xem lại cuộc trò chuyện"},
		{"/new", "Bắt đầu cuộc trò chuyện mới"},
		{"/clear", "Xóa màn hình"},
		{"/me", "Thông tin tài khoản"},
		{"/logout", "Đăng xuất"},
		{"/exit", "Thoát"},
	}
	for _, c := range cmds {
		fmt.Fprintf(d.out, "  %-22s %s\n", c[0], dimStyle.Render(c[1]))
	}
}

// PrintElapsed shows how long a reply took
func (d *ChatDisplay) PrintElapsed(elapsed time.Duration) {
	fmt.Fprintln(d.out, dimStyle.Render("⏱️  "+formatDuration(elapsed)))
}

// PrintGoodbye displays goodbye message
func (d *ChatDisplay) PrintGoodbye() {
	fmt.Fprintln(d.out, titleStyle.Render("\nCảm ơn bạn đã sử dụng URA-xLaw! 👋"))
}

func documentTitle(doc domain.RelatedDocument) string {
	switch {
	case doc.DocumentTitle != "" && doc.Title != "":
		return doc.DocumentTitle + " - " + doc.Title
	case doc.Title != "":
		return doc.Title
	case doc.DocumentTitle != "":
		return doc.DocumentTitle
	}
	return doc.DocumentID
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
