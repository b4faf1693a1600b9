package domain

// Outcome 是 watch 解析的带标签结果：要么 success，要么 failed，不会同时。
//
// 约束：
// - success：OriginalURL 为最终抓取到源的页面 URL，Videos 非空，Message 为空
// - failed：Message 为人类可读原因（没找到跳转 / 跳转后没有源），Videos 为空
// - “抓取本身失败”（超时/非 200）不走 Outcome，由上层作为错误返回
type Outcome struct {
	Status      string          `json:"status"`
	OriginalURL string          `json:"original_url,omitempty"`
	Videos      []ResolvedVideo `json:"videos,omitempty"`
	Message     string          `json:"message,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

func Success(finalURL string, videos []ResolvedVideo) Outcome {
	return Outcome{Status: StatusSuccess, OriginalURL: finalURL, Videos: videos}
}

func Failed(message string) Outcome {
	return Outcome{Status: StatusFailed, Message: message}
}

// OK 报告该结果是否为 success。
func (o Outcome) OK() bool { return o.Status == StatusSuccess }
