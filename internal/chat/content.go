package chat

// WelcomeText opens every new transcript
const WelcomeText = `<strong>Xin chào!</strong> Tôi là trợ lý pháp lý URA-xLaw. Tôi có thể giúp bạn tra cứu, so sánh, và tạo checklist tuân thủ từ các văn bản pháp luật ngân hàng.
<br><br>Bạn có thể thử các câu hỏi sau:
<ul>
  <li><code>Điều kiện cho vay thế chấp là gì?</code></li>
  <li><code>Tạo checklist tuân thủ cho việc mở thẻ tín dụng</code></li>
  <li><code>So sánh Nghị định 10/2023 và 99/2022 về đăng ký tsđb</code></li>
</ul>`

// ErrorText replaces a reply that could not be produced at all
const ErrorText = "Đã xảy ra lỗi khi xử lý tin nhắn. Vui lòng thử lại."

// LoadingText is shown while a reply is pending
const LoadingText = "URA đang áp dụng các agent (Retriever, Applicability, Citation...) để xử lý..."

// Reference is an entry of the quick-reference panel
type Reference struct {
	Title       string
	Description string
}

// Shortcut is a canned question the user can insert with one action
type Shortcut struct {
	Label    string
	Question string
}

// QuickReferences lists the circulars pinned beside the chat
var QuickReferences = []Reference{
	{Title: "Thông tư 39/2016/TT-NHNN", Description: "Quy định về hoạt động cho vay"},
	{Title: "Thông tư 19/2016/TT-NHNN", Description: "Quy định về hoạt động thẻ ngân hàng"},
}

// Shortcuts are the advanced-task chips
var Shortcuts = []Shortcut{
	{Label: "Tạo Checklist", Question: "Tạo checklist tuân thủ cho việc mở thẻ tín dụng"},
	{Label: "So sánh Văn bản", Question: "So sánh Nghị định 10/2023 và 99/2022 về đăng ký tsđb"},
}

// ShortcutAt returns the 1-based shortcut n
func ShortcutAt(n int) (Shortcut, bool) {
	if n < 1 || n > len(Shortcuts) {
		return Shortcut{}, false
	}
	return Shortcuts[n-1], true
}
