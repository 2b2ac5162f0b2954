package capsolver

// OnlyToken decodes any solution that carries a plain "token" field, such
// as FunCaptcha and MTCaptcha.
type OnlyToken struct {
	Token string `json:"token"`
}

// TokenSolution is the reCAPTCHA and hCaptcha solution.
type TokenSolution struct {
	GRecaptchaResponse string `json:"gRecaptchaResponse"`
	UserAgent          string `json:"userAgent,omitempty"`
	// ExpireTime is a unix timestamp in milliseconds.
	ExpireTime int64  `json:"expireTime,omitempty"`
	CreateTime int64  `json:"createTime,omitempty"`
	SecChUa    string `json:"secChUa,omitempty"`
	RespKey    string `json:"respKey,omitempty"`
}

// GeeTestSolution holds both the v3 and the v4 answer fields.
type GeeTestSolution struct {
	Challenge string `json:"challenge,omitempty"`
	Validate  string `json:"validate,omitempty"`
	Seccode   string `json:"seccode,omitempty"`

	CaptchaID     string `json:"captcha_id,omitempty"`
	LotNumber     string `json:"lot_number,omitempty"`
	PassToken     string `json:"pass_token,omitempty"`
	GenTime       string `json:"gen_time,omitempty"`
	CaptchaOutput string `json:"captcha_output,omitempty"`
}

// CookieSolution is returned by AWS WAF, DataDome and CyberSiAra tasks.
type CookieSolution struct {
	Cookie    string `json:"cookie"`
	UserAgent string `json:"userAgent,omitempty"`
}

// CloudflareSolution is returned by AntiCloudflareTask.
type CloudflareSolution struct {
	Token     string            `json:"token,omitempty"`
	Type      string            `json:"type,omitempty"`
	UserAgent string            `json:"userAgent,omitempty"`
	Cookies   map[string]string `json:"cookies,omitempty"`
}

// ImageToTextSolution is the recognized text of an ImageToTextTask.
type ImageToTextSolution struct {
	Text string `json:"text"`
}

// HCaptchaClassificationSolution is the answer to an hCaptcha classification task.
type HCaptchaClassificationSolution struct {
	Objects []bool `json:"objects"`
}

// FunCaptchaClassificationSolution is the answer to a FunCaptcha classification task.
type FunCaptchaClassificationSolution struct {
	Objects []int `json:"objects"`
}

// ReCaptchaClassificationSolution is the answer to a reCAPTCHA classification task.
type ReCaptchaClassificationSolution struct {
	Type      string `json:"type,omitempty"`
	Objects   []int  `json:"objects"`
	HasObject bool   `json:"hasObject,omitempty"`
	Size      int    `json:"size,omitempty"`
}

// AwsWafClassificationSolution is the answer to an AWS WAF classification task.
type AwsWafClassificationSolution struct {
	Objects []int     `json:"objects,omitempty"`
	Box     []float64 `json:"box,omitempty"`
}
