package capsolver

import (
	"context"
	"encoding/json"
	"slices"
)

// Recognition groups classification-style tasks. Most of them are solved
// synchronously and carry the solution in the createTask response.
type Recognition struct {
	s *Session
}

// ImageToText recognizes the text in a base64 encoded image.
type ImageToText struct {
	Body string `json:"body"`
	// Module is one of ModuleCommon or ModuleQueueIt.
	Module string `json:"module,omitempty"`
	// Score must lie in [0.8, 1.0].
	Score         *float64 `json:"score,omitempty"`
	CaseSensitive bool     `json:"case"`
}

func (ImageToText) TaskType() string { return KindImageToText }

func (t ImageToText) Validate() error {
	if err := checkRequired(KindImageToText, "body", t.Body); err != nil {
		return err
	}
	if t.Module != "" && !slices.Contains(imageModules, t.Module) {
		return &ValidationError{Task: KindImageToText, Field: "module", Value: t.Module, Err: ErrUnsupportedModule}
	}
	if t.Score != nil {
		return checkRange(KindImageToText, "score", *t.Score, 0.8, 1.0)
	}
	return nil
}

func (t ImageToText) MarshalJSON() ([]byte, error) {
	type plain ImageToText
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{KindImageToText, plain(t)})
}

// HCaptchaClassification classifies hCaptcha grid images.
type HCaptchaClassification struct {
	Queries  []string `json:"queries"`
	Question string   `json:"question"`
}

func (HCaptchaClassification) TaskType() string { return KindHCaptchaClassification }

func (t HCaptchaClassification) Validate() error {
	if len(t.Queries) == 0 {
		return &ValidationError{Task: KindHCaptchaClassification, Field: "queries", Err: ErrMissingField}
	}
	return checkRequired(KindHCaptchaClassification, "question", t.Question)
}

func (t HCaptchaClassification) MarshalJSON() ([]byte, error) {
	type plain HCaptchaClassification
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{KindHCaptchaClassification, plain(t)})
}

// FunCaptchaClassification classifies FunCaptcha images.
type FunCaptchaClassification struct {
	Images   []string `json:"images"`
	Question string   `json:"question"`
}

func (FunCaptchaClassification) TaskType() string { return KindFunCaptchaClassification }

func (t FunCaptchaClassification) Validate() error {
	if len(t.Images) == 0 {
		return &ValidationError{Task: KindFunCaptchaClassification, Field: "images", Err: ErrMissingField}
	}
	return checkRequired(KindFunCaptchaClassification, "question", t.Question)
}

func (t FunCaptchaClassification) MarshalJSON() ([]byte, error) {
	type plain FunCaptchaClassification
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{KindFunCaptchaClassification, plain(t)})
}

// ReCaptchaClassification classifies a reCAPTCHA v2 grid image.
type ReCaptchaClassification struct {
	Image    string `json:"image"`
	Question string `json:"question"`
}

func (ReCaptchaClassification) TaskType() string { return KindReCaptchaV2Classification }

func (t ReCaptchaClassification) Validate() error {
	return checkRequired(KindReCaptchaV2Classification, "image", t.Image, "question", t.Question)
}

func (t ReCaptchaClassification) MarshalJSON() ([]byte, error) {
	type plain ReCaptchaClassification
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{KindReCaptchaV2Classification, plain(t)})
}

// AwsWafClassification classifies AWS WAF captcha images.
type AwsWafClassification struct {
	Images   []string `json:"images"`
	Question string   `json:"question"`
}

func (AwsWafClassification) TaskType() string { return KindAwsWafClassification }

func (t AwsWafClassification) Validate() error {
	if len(t.Images) == 0 {
		return &ValidationError{Task: KindAwsWafClassification, Field: "images", Err: ErrMissingField}
	}
	return checkRequired(KindAwsWafClassification, "question", t.Question)
}

func (t AwsWafClassification) MarshalJSON() ([]byte, error) {
	type plain AwsWafClassification
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{KindAwsWafClassification, plain(t)})
}

// ImageToText submits an image-to-text recognition task.
func (r *Recognition) ImageToText(ctx context.Context, t ImageToText) (*TaskCreation, error) {
	return r.s.CreateTask(ctx, t)
}

// HCaptcha submits an hCaptcha image classification task.
func (r *Recognition) HCaptcha(ctx context.Context, t HCaptchaClassification) (*TaskCreation, error) {
	return r.s.CreateTask(ctx, t)
}

// FunCaptcha submits a FunCaptcha image classification task.
func (r *Recognition) FunCaptcha(ctx context.Context, t FunCaptchaClassification) (*TaskCreation, error) {
	return r.s.CreateTask(ctx, t)
}

// ReCaptcha submits a reCAPTCHA v2 image classification task.
func (r *Recognition) ReCaptcha(ctx context.Context, t ReCaptchaClassification) (*TaskCreation, error) {
	return r.s.CreateTask(ctx, t)
}

// AwsWaf submits an AWS WAF image classification task.
func (r *Recognition) AwsWaf(ctx context.Context, t AwsWafClassification) (*TaskCreation, error) {
	return r.s.CreateTask(ctx, t)
}
