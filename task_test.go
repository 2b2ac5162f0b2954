package capsolver

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateTask_UnsupportedKindNeverReachesTransport(t *testing.T) {
	st := newStub(t, func(string, int, []byte) string {
		t.Error("transport must not be called")
		return `{"errorId":0,"taskId":"x"}`
	})
	s := newTestSession(t, st.URL)
	ctx := context.Background()

	tasks := []Task{
		HCaptcha{Kind: "Bogus", WebsiteURL: "https://x", WebsiteKey: "k"},
		GeeTest{Kind: "Bogus", WebsiteURL: "https://x"},
		ReCaptchaV2{Kind: "Bogus", WebsiteURL: "https://x", WebsiteKey: "k"},
		ReCaptchaV3{Kind: "Bogus", WebsiteURL: "https://x", WebsiteKey: "k", PageAction: "login"},
		MtCaptcha{Kind: "Bogus", WebsiteURL: "https://x", WebsiteKey: "k"},
		AwsWaf{Kind: "Bogus", WebsiteURL: "https://x"},
		CyberSiAra{Kind: "Bogus", SlideMasterURLID: "id", WebsiteURL: "https://x", UserAgent: "UA"},
		ReCaptchaV2{Kind: KindReCaptchaV3, WebsiteURL: "https://x", WebsiteKey: "k"},
		HCaptcha{WebsiteURL: "https://x", WebsiteKey: "k"},
	}
	for _, task := range tasks {
		_, err := s.CreateTask(ctx, task)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, "%T", task)
		require.ErrorIs(t, err, ErrUnsupportedKind)
		require.Equal(t, "type", ve.Field)
	}
	require.Equal(t, 0, st.total())
}

func TestCreateTask_FacadesValidateBeforeSending(t *testing.T) {
	st := newStub(t, func(string, int, []byte) string { return `{"errorId":0,"taskId":"x"}` })
	s := newTestSession(t, st.URL)
	ctx := context.Background()

	_, err := s.Recognition().ImageToText(ctx, ImageToText{Body: "b64", Module: "nope"})
	require.ErrorIs(t, err, ErrUnsupportedModule)
	_, err = s.Recognition().HCaptcha(ctx, HCaptchaClassification{Question: "q"})
	require.ErrorIs(t, err, ErrMissingField)
	_, err = s.Token().ReCaptchaV3(ctx, ReCaptchaV3{Kind: KindReCaptchaV3, WebsiteURL: "https://x", WebsiteKey: "k"})
	require.ErrorIs(t, err, ErrMissingField)
	_, err = s.Token().DataDome(ctx, DataDome{WebsiteURL: "https://x", CaptchaURL: "https://c"})
	require.ErrorIs(t, err, ErrMissingField)
	_, err = s.Token().CloudflareTurnstile(ctx, CloudflareTurnstile{WebsiteURL: "https://x", WebsiteKey: "k", Proxy: "p"})
	require.ErrorIs(t, err, ErrMissingField)
	require.Equal(t, 0, st.total())

	_, err = s.Token().GeeTest(ctx, GeeTest{Kind: KindGeeTestProxyLess, WebsiteURL: "https://x", GT: "gt", Challenge: "c"})
	require.NoError(t, err)
	require.Equal(t, 1, st.count(endpointCreateTask))
}

func TestImageToText_ScoreBounds(t *testing.T) {
	for _, score := range []float64{0.8, 0.9, 1.0} {
		require.NoError(t, ImageToText{Body: "b", Score: Float(score)}.Validate(), "score %v", score)
	}
	for _, score := range []float64{0.79999, 1.00001, 0, -1, math.NaN()} {
		err := ImageToText{Body: "b", Score: Float(score)}.Validate()
		require.ErrorIs(t, err, ErrScoreOutOfRange, "score %v", score)
	}
	require.NoError(t, ImageToText{Body: "b", Module: ModuleQueueIt}.Validate())
}

func TestReCaptchaV3_MinScoreBounds(t *testing.T) {
	base := ReCaptchaV3{Kind: KindReCaptchaV3ProxyLess, WebsiteURL: "https://x", WebsiteKey: "k", PageAction: "submit"}
	for _, v := range []float64{0, 0.5, 1} {
		task := base
		task.MinScore = Float(v)
		require.NoError(t, task.Validate())
	}
	for _, v := range []float64{-0.01, 1.1, math.NaN()} {
		task := base
		task.MinScore = Float(v)
		require.ErrorIs(t, task.Validate(), ErrScoreOutOfRange, "minScore %v", v)
	}
}

func TestCreateTask_NaNScoreIsValidationError(t *testing.T) {
	st := newStub(t, func(string, int, []byte) string { return `{"errorId":0,"taskId":"x"}` })
	s := newTestSession(t, st.URL)
	ctx := context.Background()

	_, err := s.CreateTask(ctx, ImageToText{Body: "b", Score: Float(math.NaN())})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "score", ve.Field)
	require.ErrorIs(t, err, ErrScoreOutOfRange)

	_, err = s.CreateTask(ctx, ReCaptchaV3{Kind: KindReCaptchaV3, WebsiteURL: "u", WebsiteKey: "k", PageAction: "a", MinScore: Float(math.NaN())})
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "minScore", ve.Field)
	require.Equal(t, 0, st.total())
}

func TestCyberSiAra_SharesAwsWafTags(t *testing.T) {
	for _, kind := range awsWafKinds {
		task := CyberSiAra{Kind: kind, SlideMasterURLID: "id", WebsiteURL: "https://x", UserAgent: "UA"}
		require.NoError(t, task.Validate())
	}
}

func jsonKeys(t *testing.T, v any) []string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &m))
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestTask_OptionalFieldsOmitted(t *testing.T) {
	cases := []struct {
		task Task
		keys []string
	}{
		{ImageToText{Body: "b"}, []string{"body", "case", "type"}},
		{HCaptcha{Kind: KindHCaptchaTurbo, WebsiteURL: "u", WebsiteKey: "k"}, []string{"type", "websiteKey", "websiteURL"}},
		{FunCaptcha{WebsiteURL: "u", WebsitePublicKey: "pk"}, []string{"type", "websitePublicKey", "websiteURL"}},
		{GeeTest{Kind: KindGeeTest, WebsiteURL: "u"}, []string{"type", "websiteURL"}},
		{ReCaptchaV2{Kind: KindReCaptchaV2, WebsiteURL: "u", WebsiteKey: "k"}, []string{"type", "websiteKey", "websiteURL"}},
		{ReCaptchaV3{Kind: KindReCaptchaV3, WebsiteURL: "u", WebsiteKey: "k", PageAction: "a"}, []string{"pageAction", "type", "websiteKey", "websiteURL"}},
		{MtCaptcha{Kind: KindMtCaptcha, WebsiteURL: "u", WebsiteKey: "k"}, []string{"type", "websiteKey", "websiteURL"}},
		{AwsWaf{Kind: KindAwsWafProxyLess, WebsiteURL: "u"}, []string{"type", "websiteURL"}},
		{CyberSiAra{Kind: KindAwsWaf, SlideMasterURLID: "id", WebsiteURL: "u", UserAgent: "ua"}, []string{"SlideMasterURLId", "type", "userAgent", "websiteURL"}},
	}
	for _, c := range cases {
		require.Equal(t, c.keys, jsonKeys(t, c.task), "%T", c.task)
	}
}

func TestTask_OptionalFieldsIncludedWhenSet(t *testing.T) {
	task := ReCaptchaV2{
		Kind:              KindReCaptchaV2,
		WebsiteURL:        "u",
		WebsiteKey:        "k",
		PageAction:        "login",
		IsInvisible:       Bool(false),
		Proxy:             "http://p:1",
		Cookies:           []Cookie{{Name: "a", Value: "b"}},
		EnterprisePayload: map[string]any{"s": "x"},
	}
	b, err := json.Marshal(task)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"type":"ReCaptchaV2Task","websiteURL":"u","websiteKey":"k","pageAction":"login",
		"cookies":[{"name":"a","value":"b"}],"isInvisible":false,"proxy":"http://p:1",
		"enterprisePayload":{"s":"x"}
	}`, string(b))

	img := ImageToText{Body: "b", Module: ModuleCommon, Score: Float(0.9), CaseSensitive: true}
	b, err = json.Marshal(img)
	require.NoError(t, err)
	require.Equal(t, `{"type":"ImageToTextTask","body":"b","module":"common","score":0.9,"case":true}`, string(b))
}

func TestTask_FixedKindsEncodeTypeFirst(t *testing.T) {
	b, err := json.Marshal(CloudflareTurnstile{WebsiteURL: "u", WebsiteKey: "k", Metadata: map[string]string{"type": "turnstile"}, Proxy: "p"})
	require.NoError(t, err)
	require.Equal(t, `{"type":"AntiCloudflareTask","websiteURL":"u","websiteKey":"k","metadata":{"type":"turnstile"},"proxy":"p"}`, string(b))

	b, err = json.Marshal(DataDome{WebsiteURL: "u", CaptchaURL: "c", Proxy: "p", UserAgent: "ua"})
	require.NoError(t, err)
	require.Equal(t, `{"type":"DataDomeSliderTask","websiteURL":"u","captchaUrl":"c","proxy":"p","userAgent":"ua"}`, string(b))
}

func TestValidationError_Message(t *testing.T) {
	err := HCaptcha{Kind: "Bogus"}.Validate()
	require.EqualError(t, err, "HCaptcha: type=Bogus: capsolver: unsupported kind")
	require.True(t, errors.Is(err, ErrUnsupportedKind))
}
