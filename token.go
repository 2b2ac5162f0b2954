package capsolver

import (
	"context"
	"encoding/json"
)

// Token groups tasks whose solution is a token or cookie to replay against
// the protected site.
type Token struct {
	s *Session
}

// HCaptcha solves an hCaptcha widget. Kind is one of KindHCaptcha,
// KindHCaptchaProxyLess or KindHCaptchaTurbo.
type HCaptcha struct {
	Kind              string         `json:"type"`
	WebsiteURL        string         `json:"websiteURL"`
	WebsiteKey        string         `json:"websiteKey"`
	IsInvisible       *bool          `json:"isInvisible,omitempty"`
	Proxy             string         `json:"proxy,omitempty"`
	EnterprisePayload map[string]any `json:"enterprisePayload,omitempty"`
	UserAgent         string         `json:"userAgent,omitempty"`
}

func (t HCaptcha) TaskType() string { return t.Kind }

func (t HCaptcha) Validate() error {
	if err := checkKind("HCaptcha", t.Kind, hCaptchaKinds); err != nil {
		return err
	}
	return checkRequired(t.Kind, "websiteURL", t.WebsiteURL, "websiteKey", t.WebsiteKey)
}

// FunCaptcha solves an Arkose Labs FunCaptcha.
type FunCaptcha struct {
	WebsiteURL               string `json:"websiteURL"`
	WebsitePublicKey         string `json:"websitePublicKey"`
	FunCaptchaAPIJSSubdomain string `json:"funcaptchaApiJSSubdomain,omitempty"`
	Data                     string `json:"data,omitempty"`
	Proxy                    string `json:"proxy,omitempty"`
}

func (FunCaptcha) TaskType() string { return KindFunCaptchaProxyLess }

func (t FunCaptcha) Validate() error {
	return checkRequired(KindFunCaptchaProxyLess, "websiteURL", t.WebsiteURL, "websitePublicKey", t.WebsitePublicKey)
}

func (t FunCaptcha) MarshalJSON() ([]byte, error) {
	type plain FunCaptcha
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{KindFunCaptchaProxyLess, plain(t)})
}

// GeeTest solves a GeeTest v3 (GT + Challenge) or v4 (CaptchaID) slider.
type GeeTest struct {
	Kind                      string `json:"type"`
	WebsiteURL                string `json:"websiteURL"`
	GT                        string `json:"gt,omitempty"`
	Challenge                 string `json:"challenge,omitempty"`
	CaptchaID                 string `json:"captchaId,omitempty"`
	GeeTestAPIServerSubdomain string `json:"geetestApiServerSubdomain,omitempty"`
	Proxy                     string `json:"proxy,omitempty"`
}

func (t GeeTest) TaskType() string { return t.Kind }

func (t GeeTest) Validate() error {
	if err := checkKind("GeeTest", t.Kind, geeTestKinds); err != nil {
		return err
	}
	return checkRequired(t.Kind, "websiteURL", t.WebsiteURL)
}

// ReCaptchaV2 solves a reCAPTCHA v2 widget.
type ReCaptchaV2 struct {
	Kind              string         `json:"type"`
	WebsiteURL        string         `json:"websiteURL"`
	WebsiteKey        string         `json:"websiteKey"`
	PageAction        string         `json:"pageAction,omitempty"`
	APIDomain         string         `json:"apiDomain,omitempty"`
	Cookies           []Cookie       `json:"cookies,omitempty"`
	Anchor            string         `json:"anchor,omitempty"`
	Reload            string         `json:"reload,omitempty"`
	IsInvisible       *bool          `json:"isInvisible,omitempty"`
	Proxy             string         `json:"proxy,omitempty"`
	EnterprisePayload map[string]any `json:"enterprisePayload,omitempty"`
	UserAgent         string         `json:"userAgent,omitempty"`
}

func (t ReCaptchaV2) TaskType() string { return t.Kind }

func (t ReCaptchaV2) Validate() error {
	if err := checkKind("ReCaptchaV2", t.Kind, reCaptchaV2Kinds); err != nil {
		return err
	}
	return checkRequired(t.Kind, "websiteURL", t.WebsiteURL, "websiteKey", t.WebsiteKey)
}

// ReCaptchaV3 solves a score based reCAPTCHA v3. PageAction is mandatory.
type ReCaptchaV3 struct {
	Kind       string `json:"type"`
	WebsiteURL string `json:"websiteURL"`
	WebsiteKey string `json:"websiteKey"`
	PageAction string `json:"pageAction"`
	// MinScore must lie in [0, 1].
	MinScore          *float64       `json:"minScore,omitempty"`
	APIDomain         string         `json:"apiDomain,omitempty"`
	Cookies           []Cookie       `json:"cookies,omitempty"`
	Anchor            string         `json:"anchor,omitempty"`
	Reload            string         `json:"reload,omitempty"`
	Proxy             string         `json:"proxy,omitempty"`
	EnterprisePayload map[string]any `json:"enterprisePayload,omitempty"`
	UserAgent         string         `json:"userAgent,omitempty"`
}

func (t ReCaptchaV3) TaskType() string { return t.Kind }

func (t ReCaptchaV3) Validate() error {
	if err := checkKind("ReCaptchaV3", t.Kind, reCaptchaV3Kinds); err != nil {
		return err
	}
	if err := checkRequired(t.Kind, "websiteURL", t.WebsiteURL, "websiteKey", t.WebsiteKey, "pageAction", t.PageAction); err != nil {
		return err
	}
	if t.MinScore != nil {
		return checkRange(t.Kind, "minScore", *t.MinScore, 0, 1)
	}
	return nil
}

// MtCaptcha solves an MTCaptcha widget.
type MtCaptcha struct {
	Kind       string `json:"type"`
	WebsiteURL string `json:"websiteURL"`
	WebsiteKey string `json:"websiteKey"`
	Proxy      string `json:"proxy,omitempty"`
}

func (t MtCaptcha) TaskType() string { return t.Kind }

func (t MtCaptcha) Validate() error {
	if err := checkKind("MtCaptcha", t.Kind, mtCaptchaKinds); err != nil {
		return err
	}
	return checkRequired(t.Kind, "websiteURL", t.WebsiteURL, "websiteKey", t.WebsiteKey)
}

// DataDome solves a DataDome slider. The service requires the same proxy
// and user agent the browser used.
type DataDome struct {
	WebsiteURL string `json:"websiteURL"`
	CaptchaURL string `json:"captchaUrl"`
	Proxy      string `json:"proxy"`
	UserAgent  string `json:"userAgent"`
}

func (DataDome) TaskType() string { return KindDataDomeSlider }

func (t DataDome) Validate() error {
	return checkRequired(KindDataDomeSlider,
		"websiteURL", t.WebsiteURL,
		"captchaUrl", t.CaptchaURL,
		"proxy", t.Proxy,
		"userAgent", t.UserAgent,
	)
}

func (t DataDome) MarshalJSON() ([]byte, error) {
	type plain DataDome
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{KindDataDomeSlider, plain(t)})
}

// AwsWaf solves an AWS WAF challenge.
type AwsWaf struct {
	Kind       string `json:"type"`
	WebsiteURL string `json:"websiteURL"`
	Proxy      string `json:"proxy,omitempty"`
}

func (t AwsWaf) TaskType() string { return t.Kind }

func (t AwsWaf) Validate() error {
	if err := checkKind("AwsWaf", t.Kind, awsWafKinds); err != nil {
		return err
	}
	return checkRequired(t.Kind, "websiteURL", t.WebsiteURL)
}

// CyberSiAra solves a CyberSiAra slider.
type CyberSiAra struct {
	Kind             string `json:"type"`
	SlideMasterURLID string `json:"SlideMasterURLId"`
	WebsiteURL       string `json:"websiteURL"`
	UserAgent        string `json:"userAgent"`
	Proxy            string `json:"proxy,omitempty"`
}

func (t CyberSiAra) TaskType() string { return t.Kind }

func (t CyberSiAra) Validate() error {
	if err := checkKind("CyberSiAra", t.Kind, cyberSiAraKinds); err != nil {
		return err
	}
	return checkRequired(t.Kind,
		"SlideMasterURLId", t.SlideMasterURLID,
		"websiteURL", t.WebsiteURL,
		"userAgent", t.UserAgent,
	)
}

// CloudflareTurnstile solves a Turnstile widget.
type CloudflareTurnstile struct {
	WebsiteURL string            `json:"websiteURL"`
	WebsiteKey string            `json:"websiteKey"`
	Metadata   map[string]string `json:"metadata"`
	Proxy      string            `json:"proxy"`
}

func (CloudflareTurnstile) TaskType() string { return KindAntiCloudflare }

func (t CloudflareTurnstile) Validate() error {
	if err := checkRequired(KindAntiCloudflare, "websiteURL", t.WebsiteURL, "websiteKey", t.WebsiteKey, "proxy", t.Proxy); err != nil {
		return err
	}
	if len(t.Metadata) == 0 {
		return &ValidationError{Task: KindAntiCloudflare, Field: "metadata", Err: ErrMissingField}
	}
	return nil
}

func (t CloudflareTurnstile) MarshalJSON() ([]byte, error) {
	type plain CloudflareTurnstile
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{KindAntiCloudflare, plain(t)})
}

// CloudflareChallenge solves a Cloudflare interstitial challenge page.
type CloudflareChallenge struct {
	WebsiteURL string            `json:"websiteURL"`
	HTML       string            `json:"html"`
	Metadata   map[string]string `json:"metadata"`
	Proxy      string            `json:"proxy"`
}

func (CloudflareChallenge) TaskType() string { return KindAntiCloudflare }

func (t CloudflareChallenge) Validate() error {
	if err := checkRequired(KindAntiCloudflare, "websiteURL", t.WebsiteURL, "html", t.HTML, "proxy", t.Proxy); err != nil {
		return err
	}
	if len(t.Metadata) == 0 {
		return &ValidationError{Task: KindAntiCloudflare, Field: "metadata", Err: ErrMissingField}
	}
	return nil
}

func (t CloudflareChallenge) MarshalJSON() ([]byte, error) {
	type plain CloudflareChallenge
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{KindAntiCloudflare, plain(t)})
}

// HCaptcha submits an hCaptcha token task.
func (k *Token) HCaptcha(ctx context.Context, t HCaptcha) (*TaskCreation, error) {
	return k.s.CreateTask(ctx, t)
}

// FunCaptcha submits a FunCaptcha token task.
func (k *Token) FunCaptcha(ctx context.Context, t FunCaptcha) (*TaskCreation, error) {
	return k.s.CreateTask(ctx, t)
}

// GeeTest submits a GeeTest v3 or v4 token task.
func (k *Token) GeeTest(ctx context.Context, t GeeTest) (*TaskCreation, error) {
	return k.s.CreateTask(ctx, t)
}

// ReCaptchaV2 submits a reCAPTCHA v2 token task.
func (k *Token) ReCaptchaV2(ctx context.Context, t ReCaptchaV2) (*TaskCreation, error) {
	return k.s.CreateTask(ctx, t)
}

// ReCaptchaV3 submits a reCAPTCHA v3 token task.
func (k *Token) ReCaptchaV3(ctx context.Context, t ReCaptchaV3) (*TaskCreation, error) {
	return k.s.CreateTask(ctx, t)
}

// MtCaptcha submits an MTCaptcha token task.
func (k *Token) MtCaptcha(ctx context.Context, t MtCaptcha) (*TaskCreation, error) {
	return k.s.CreateTask(ctx, t)
}

// DataDome submits a DataDome slider task.
func (k *Token) DataDome(ctx context.Context, t DataDome) (*TaskCreation, error) {
	return k.s.CreateTask(ctx, t)
}

// AwsWaf submits an AWS WAF cookie task.
func (k *Token) AwsWaf(ctx context.Context, t AwsWaf) (*TaskCreation, error) {
	return k.s.CreateTask(ctx, t)
}

// CyberSiAra submits a CyberSiAra slider task.
func (k *Token) CyberSiAra(ctx context.Context, t CyberSiAra) (*TaskCreation, error) {
	return k.s.CreateTask(ctx, t)
}

// CloudflareTurnstile submits a Cloudflare Turnstile token task.
func (k *Token) CloudflareTurnstile(ctx context.Context, t CloudflareTurnstile) (*TaskCreation, error) {
	return k.s.CreateTask(ctx, t)
}

// CloudflareChallenge submits a Cloudflare challenge page task.
func (k *Token) CloudflareChallenge(ctx context.Context, t CloudflareChallenge) (*TaskCreation, error) {
	return k.s.CreateTask(ctx, t)
}
