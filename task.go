package capsolver

import (
	"math"
	"slices"
)

// Task is a payload accepted by createTask. Its JSON encoding is the flat
// wire document, starting with the "type" tag.
type Task interface {
	TaskType() string
	Validate() error
}

// Task type tags.
const (
	KindImageToText               = "ImageToTextTask"
	KindHCaptchaClassification    = "HCaptchaClassification"
	KindFunCaptchaClassification  = "FunCaptchaClassification"
	KindReCaptchaV2Classification = "ReCaptchaV2Classification"
	KindAwsWafClassification      = "AwsWafClassification"
	KindHCaptcha                  = "HCaptchaTask"
	KindHCaptchaProxyLess         = "HCaptchaTaskProxyLess"
	KindHCaptchaTurbo             = "HCaptchaTurboTask"
	KindFunCaptchaProxyLess       = "FunCaptchaTaskProxyLess"
	KindGeeTest                   = "GeeTestTask"
	KindGeeTestProxyLess          = "GeeTestTaskProxyLess"
	KindReCaptchaV2               = "ReCaptchaV2Task"
	KindReCaptchaV2ProxyLess      = "ReCaptchaV2TaskProxyLess"
	KindReCaptchaV3               = "ReCaptchaV3Task"
	KindReCaptchaV3ProxyLess      = "ReCaptchaV3TaskProxyLess"
	KindMtCaptcha                 = "MtCaptchaTask"
	KindMtCaptchaProxyLess        = "MtCaptchaTaskProxyLess"
	KindDataDomeSlider            = "DataDomeSliderTask"
	KindAwsWaf                    = "AwsWafTask"
	KindAwsWafProxyLess           = "AwsWafTaskProxyLess"
	KindAntiCloudflare            = "AntiCloudflareTask"
)

// Kind allow-lists for families with sub-variants.
var (
	hCaptchaKinds    = []string{KindHCaptcha, KindHCaptchaProxyLess, KindHCaptchaTurbo}
	geeTestKinds     = []string{KindGeeTest, KindGeeTestProxyLess}
	reCaptchaV2Kinds = []string{KindReCaptchaV2, KindReCaptchaV2ProxyLess}
	reCaptchaV3Kinds = []string{KindReCaptchaV3, KindReCaptchaV3ProxyLess}
	mtCaptchaKinds   = []string{KindMtCaptcha, KindMtCaptchaProxyLess}
	awsWafKinds      = []string{KindAwsWaf, KindAwsWafProxyLess}

	// TODO: confirm with the live service whether CyberSiAra really shares
	// the AWS WAF tags or expects AntiCyberSiAraTask[ProxyLess].
	cyberSiAraKinds = []string{KindAwsWaf, KindAwsWafProxyLess}
)

// Image recognition modules.
const (
	ModuleCommon  = "common"
	ModuleQueueIt = "queueit"
)

var imageModules = []string{ModuleCommon, ModuleQueueIt}

// Cookie is a single cookie passed to reCAPTCHA tasks.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Bool returns a pointer to v, for optional task fields.
func Bool(v bool) *bool { return &v }

// Float returns a pointer to v, for optional task fields.
func Float(v float64) *float64 { return &v }

func checkKind(task, kind string, allowed []string) error {
	if !slices.Contains(allowed, kind) {
		return &ValidationError{Task: task, Field: "type", Value: kind, Err: ErrUnsupportedKind}
	}
	return nil
}

func checkRequired(task string, fields ...string) error {
	for i := 0; i+1 < len(fields); i += 2 {
		if fields[i+1] == "" {
			return &ValidationError{Task: task, Field: fields[i], Err: ErrMissingField}
		}
	}
	return nil
}

func checkRange(task, field string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return &ValidationError{Task: task, Field: field, Value: v, Err: ErrScoreOutOfRange}
	}
	return nil
}
