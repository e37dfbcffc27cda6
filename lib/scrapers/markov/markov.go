package markov

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"shottys-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/markov")

var ErrLoginFailed = fmt.Errorf("the dashboard rejected the login credentials")

const (
	DefaultBaseUrl   = "https://mcs.mar-kov.com/MCS_7-22-00_Dashboard"
	DefaultReturnUrl = "/100-SHOTTYSLLC"

	loginPath     = "/Identity/Account/Login"
	logoutPath    = "/Identity/Account/Logout"
	dashboardPath = "/api/dashboard/data/DashboardItemGetAction"
)

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	returnUrl string
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// the post-login landing page, defaults to DefaultReturnUrl
	ReturnUrl string
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.ReturnUrl == "" {
		opts.ReturnUrl = DefaultReturnUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/markov/http")

	c := &Client{
		BaseUrl:   baseUrl,
		Http:      client,
		returnUrl: opts.ReturnUrl,
	}
	return c, nil
}

type Credentials struct {
	Company  string
	Email    string
	Password string
}

func (c *Client) Login(ctx context.Context, creds Credentials) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParam("ReturnUrl", c.returnUrl).
		Get(loginPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch login form")
		return err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse login form html")
		return err
	}

	token := doc.Find("input[name=__RequestVerificationToken]").AttrOr("value", "")
	if token == "" {
		span.SetStatus(codes.Error, "failed to find verification token")
		return fmt.Errorf("could not find verification token in login form")
	}

	res, err = c.Http.R().
		SetContext(ctx).
		SetQueryParam("ReturnUrl", c.returnUrl).
		SetFormData(map[string]string{
			"Input.Company":              creds.Company,
			"Input.Email":                creds.Email,
			"Input.Password":             creds.Password,
			"__RequestVerificationToken": token,
		}).
		Post(loginPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return err
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "login returned a non-success status")
		return fmt.Errorf("login failed with status code: %d", res.StatusCode())
	}

	doc, err = goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse post-login html")
		return err
	}
	// a rejected login re-renders the form with its errors inline
	if len(doc.Find("div.validation-summary-errors").Nodes) > 0 {
		span.SetStatus(codes.Error, ErrLoginFailed.Error())
		return ErrLoginFailed
	}

	return nil
}

type FetchRequest struct {
	DashboardId string
	ItemId      string
}

func (c *Client) FetchDashboardItem(ctx context.Context, req FetchRequest) (*DashboardItemData, error) {
	ctx, span := tracer.Start(ctx, "client:FetchDashboardItem")
	defer span.End()
	span.SetAttributes(
		attribute.String("dashboard_id", req.DashboardId),
		attribute.String("item_id", req.ItemId),
	)

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"dashboardId": req.DashboardId,
			"itemId":      req.ItemId,
		}).
		Get(dashboardPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch dashboard item")
		return nil, err
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "dashboard item returned a non-success status")
		return nil, fmt.Errorf("dashboard item request failed with status code: %d", res.StatusCode())
	}

	var data DashboardItemData
	err = json.Unmarshal(res.Body(), &data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to unmarshal dashboard item")
		return nil, err
	}
	return &data, nil
}

// Logout releases the dashboard session. callers are expected to
// attempt this even when the fetch fails and to swallow the returned
// error, the vendor invalidates stale sessions on its own eventually.
func (c *Client) Logout(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:Logout")
	defer span.End()

	_, err := c.Http.R().
		SetContext(ctx).
		Get(logoutPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to logout")
		return err
	}
	return nil
}
