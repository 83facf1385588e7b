package mock

import "ura-xlaw/internal/domain"

// cannedAnswers are keyed by the lowercased question
var cannedAnswers = map[string]string{
	"điều kiện cho vay thế chấp là gì?": `
    <div class="answer-card">
      <div class="answer-header">
        <strong>Trả lời chính</strong>
        <span class="status-badge valid"><i class="fas fa-check-circle"></i> Còn hiệu lực</span>
      </div>
      <div class="answer-body">
        Tổ chức tín dụng (TCTD) xem xét và quyết định cho vay khi khách hàng có đủ các điều kiện sau:
        <ol>
          <li><b>Năng lực pháp luật và hành vi dân sự:</b> Khách hàng là pháp nhân hoặc cá nhân từ đủ 18 tuổi trở lên.</li>
          <li><b>Mục đích vay vốn hợp pháp.</b></li>
          <li><b>Phương án sử dụng vốn khả thi.</b></li>
          <li><b>Khả năng tài chính để trả nợ.</b></li>
          <li><b>Có tài sản bảo đảm (TSĐB)</b> cho khoản vay theo quy định của TCTD và pháp luật.</li>
        </ol>
      </div>
      <div class="answer-citations">
        <div class="citation-item">
          <span class="source"><a href="#" target="_blank">Điều 7, Thông tư 39/2016/TT-NHNN</a></span>
        </div>
      </div>
    </div>
  `,
	"tạo checklist mở thẻ tín dụng": `
    <div class="answer-card">
      <div class="answer-header">
        <strong>Checklist: Mở Thẻ Tín Dụng</strong>
        <span class="status-badge valid"><i class="fas fa-check-circle"></i> Còn hiệu lực</span>
      </div>
      <div class="answer-body checklist">
        Dưới đây là danh mục hành động tuân thủ tự động cho quy trình phát hành thẻ tín dụng:
        <ul>
          <li>Nhận diện và xác minh thông tin khách hàng (KYC).</li>
          <li>Yêu cầu khách hàng điền vào giấy đề nghị phát hành thẻ theo mẫu của TCTD.</li>
          <li>Thu thập và thẩm định hồ sơ chứng minh nhân thân (CCCD/Hộ chiếu).</li>
          <li>Thu thập và thẩm định hồ sơ chứng minh khả năng tài chính (HĐLĐ, sao kê lương).</li>
          <li>Kiểm tra lịch sử tín dụng của khách hàng trên CIC.</li>
          <li>Ký kết hợp đồng phát hành và sử dụng thẻ với khách hàng.</li>
        </ul>
      </div>
    </div>
  `,
	"so sánh nghị định 10/2023 và 99/2022 về đăng ký tsđb": `
    <div class="answer-card">
      <div class="answer-header">
        <strong>Diff &amp; Redline: Đăng ký Tài sản bảo đảm</strong>
        <span class="status-badge valid"><i class="fas fa-info-circle"></i> Phân tích thay đổi</span>
      </div>
      <div class="answer-body">
        Nghị định 10/2023/NĐ-CP đã sửa đổi một số quy định trong Nghị định 99/2022/NĐ-CP, đáng chú ý là về việc cấp bản sao văn bản chứng nhận đăng ký biện pháp bảo đảm.
      </div>
      <div class="answer-citations">
        <div class="citation-item">
          <span class="source"><a href="#" target="_blank">Khoản 5, Điều 1, Nghị định 10/2023/NĐ-CP</a></span>
        </div>
      </div>
    </div>
  `,
}

// NoAnswer is returned for every question without a canned answer. The
// assistant refuses rather than answering without a legal citation.
const NoAnswer = `
  <div class="answer-card">
    <div class="answer-header">
      <strong>Không thể trả lời</strong>
      <span class="status-badge warning"><i class="fas fa-exclamation-triangle"></i> No Citation, No Answer</span>
    </div>
    <div class="answer-body">
      Để đảm bảo tính chính xác và giảm thiểu "ảo giác" (hallucination), tôi không thể cung cấp câu trả lời do không truy hồi được trích dẫn pháp lý đáng tin cậy từ cơ sở tri thức hiện tại.
      <br><br>
      Vui lòng thử diễn đạt lại câu hỏi hoặc tải lên tài liệu liên quan để tôi phân tích.
    </div>
  </div>
`

// credential is one row of the offline login table
type credential struct {
	password string
	user     domain.User
}

var credentials = map[string]credential{
	"admin": {
		password: "admin123",
		user: domain.User{
			ID:          1,
			StaffID:     "admin",
			FullName:    "Nguyễn Văn Admin",
			Department:  "Phòng Pháp chế",
			Role:        "Administrator",
			Permissions: []string{"chat", "documents", "admin"},
		},
	},
	"legal01": {
		password: "legal123",
		user: domain.User{
			ID:          2,
			StaffID:     "legal01",
			FullName:    "Trần Thị Pháp",
			Department:  "Phòng Pháp chế",
			Role:        "Legal Officer",
			Permissions: []string{"chat", "documents"},
		},
	},
	"credit01": {
		password: "credit123",
		user: domain.User{
			ID:          3,
			StaffID:     "credit01",
			FullName:    "Lê Văn Tín",
			Department:  "Phòng Tín dụng",
			Role:        "Credit Officer",
			Permissions: []string{"chat"},
		},
	},
	"demo": {
		password: "demo",
		user: domain.User{
			ID:          4,
			StaffID:     "demo",
			FullName:    "Người dùng Demo",
			Department:  "Demo Department",
			Role:        "Demo User",
			Permissions: []string{"chat", "documents"},
		},
	},
}
