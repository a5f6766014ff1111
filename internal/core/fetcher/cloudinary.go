package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/asset"
	cldconfig "github.com/cloudinary/cloudinary-go/v2/config"
	"github.com/rs/zerolog/log"
)

const (
	cloudinaryDeliveryBase = "https://res.cloudinary.com"
	cloudinaryAPIBase      = "https://api.cloudinary.com"

	resourceImage = "image"
	resourceRaw   = "raw"
	resourceVideo = "video"

	deliveryUpload        = "upload"
	deliveryPrivate       = "private"
	deliveryAuthenticated = "authenticated"

	flagAttachment = "fl_attachment"
)

var (
	reVersion   = regexp.MustCompile(`^v\d+$`)
	reTransform = regexp.MustCompile(`^[a-z]{1,3}_[^/]*$`)

	// Formats Cloudinary stores as image resources; everything else lives under raw.
	imageFormats = map[string]bool{
		"pdf": true, "png": true, "jpg": true, "jpeg": true, "gif": true, "webp": true,
		"bmp": true, "tif": true, "tiff": true, "svg": true, "heic": true, "avif": true,
	}
)

// Cloudinary rewrites res.cloudinary.com delivery URLs.
//
// CloudName/APIKey/APISecret: account credentials; without all three SignedURL contributes nothing.
// TTL:                        lifetime of signed download URLs.
// DeliveryBase/APIBase:       hosts to match and target; empty means the public Cloudinary hosts.
type Cloudinary struct {
	CloudName    string
	APIKey       string
	APISecret    string
	TTL          time.Duration
	DeliveryBase string
	APIBase      string

	now func() time.Time
}

var _ Provider = (*Cloudinary)(nil)

// cloudinaryAsset is a delivery URL split into its parts.
type cloudinaryAsset struct {
	cloud        string
	resourceType string
	deliveryType string
	transforms   []string
	version      string
	publicID     string
	format       string
}

func (c *Cloudinary) Name() string { return "cloudinary" }

func (c *Cloudinary) Match(u *url.URL) bool {
	if !c.hostMatches(u) {
		return false
	}
	_, ok := c.parse(u)
	return ok
}

func (c *Cloudinary) CorrectedURL(u *url.URL) (string, bool) {
	a, ok := c.parse(u)
	if !ok {
		return "", false
	}
	category := a.category()
	if category == a.resourceType && len(a.transforms) == 0 {
		return "", false
	}
	return c.deliveryURL(a, category, "")
}

func (c *Cloudinary) DownloadURL(u *url.URL) (string, bool) {
	a, ok := c.parse(u)
	if !ok {
		return "", false
	}
	category := a.category()
	if category == resourceRaw {
		// raw delivery has no transformations to switch off
		return "", false
	}
	return c.deliveryURL(a, category, flagAttachment)
}

// SignedURL builds a private download API URL valid until now+TTL.
func (c *Cloudinary) SignedURL(_ context.Context, u *url.URL) (string, bool, error) {
	if c.CloudName == "" || c.APIKey == "" || c.APISecret == "" {
		return "", false, nil
	}
	a, ok := c.parse(u)
	if !ok || a.cloud != c.CloudName {
		return "", false, nil
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	ts := now()

	category := a.category()
	params := url.Values{}
	params.Set("timestamp", strconv.FormatInt(ts.Unix(), 10))
	params.Set("expires_at", strconv.FormatInt(ts.Add(ttl).Unix(), 10))
	params.Set("type", a.deliveryType)
	if category == resourceRaw {
		params.Set("public_id", a.file())
	} else {
		params.Set("public_id", a.publicID)
		if a.format != "" {
			params.Set("format", a.format)
		}
	}
	signature, err := api.SignParameters(params, c.APISecret)
	if err != nil {
		return "", false, fmt.Errorf("sign download parameters: %w", err)
	}
	params.Set("signature", signature)
	params.Set("api_key", c.APIKey)

	base := strings.TrimRight(c.APIBase, "/")
	if base == "" {
		base = cloudinaryAPIBase
	}
	return base + "/v1_1/" + url.PathEscape(a.cloud) + "/" + category + "/download?" + params.Encode(), true, nil
}

func (c *Cloudinary) hostMatches(u *url.URL) bool {
	if u == nil {
		return false
	}
	if c.DeliveryBase != "" {
		if base, err := url.Parse(c.DeliveryBase); err == nil && strings.EqualFold(base.Host, u.Host) {
			return true
		}
	}
	host := strings.ToLower(u.Hostname())
	return host == "res.cloudinary.com" || strings.HasSuffix(host, ".cloudinary.com")
}

// parse splits /<cloud>/<resource>/<delivery>/[<transforms>/][v<version>/]<public_id>[.<ext>].
func (c *Cloudinary) parse(u *url.URL) (cloudinaryAsset, bool) {
	if !c.hostMatches(u) {
		return cloudinaryAsset{}, false
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) < 4 {
		return cloudinaryAsset{}, false
	}
	a := cloudinaryAsset{cloud: segs[0], resourceType: segs[1], deliveryType: segs[2]}
	switch a.resourceType {
	case resourceImage, resourceRaw, resourceVideo:
	default:
		return cloudinaryAsset{}, false
	}

	rest := segs[3:]
	versionAt := -1
	for i, s := range rest {
		if reVersion.MatchString(s) {
			versionAt = i
			break
		}
	}
	if versionAt >= 0 {
		a.transforms = rest[:versionAt]
		a.version = rest[versionAt]
		rest = rest[versionAt+1:]
	} else {
		for len(rest) > 1 && isTransformSegment(rest[0]) {
			a.transforms = append(a.transforms, rest[0])
			rest = rest[1:]
		}
	}
	if len(rest) == 0 {
		return cloudinaryAsset{}, false
	}

	id := strings.Join(rest, "/")
	ext := path.Ext(id)
	a.publicID = strings.TrimSuffix(id, ext)
	a.format = strings.ToLower(strings.TrimPrefix(ext, "."))
	return a, a.publicID != ""
}

func isTransformSegment(s string) bool {
	for _, part := range strings.Split(s, ",") {
		if !reTransform.MatchString(part) {
			return false
		}
	}
	return true
}

func (a cloudinaryAsset) file() string {
	if a.format == "" {
		return a.publicID
	}
	return a.publicID + "." + a.format
}

// deliveryURL renders the asset as resource with an optional transformation through the
// Cloudinary SDK, then moves it onto DeliveryBase. The SDK's analytics query is dropped.
func (c *Cloudinary) deliveryURL(a cloudinaryAsset, resource, transformation string) (string, bool) {
	conf, err := cldconfig.NewFromParams(a.cloud, c.APIKey, c.APISecret)
	if err != nil {
		log.Warn().Err(err).Str("cloud", a.cloud).Msg("cloudinary configuration rejected")
		return "", false
	}

	var target *asset.Asset
	switch resource {
	case resourceImage:
		target, err = asset.Image(a.file(), conf)
	case resourceVideo:
		target, err = asset.Video(a.file(), conf)
	default:
		target, err = asset.File(a.file(), conf)
	}
	if err != nil {
		log.Warn().Err(err).Str("public_id", a.publicID).Msg("cloudinary asset rejected")
		return "", false
	}

	switch a.deliveryType {
	case deliveryUpload:
		target.DeliveryType = deliveryUpload
	case deliveryPrivate:
		target.DeliveryType = deliveryPrivate
	case deliveryAuthenticated:
		target.DeliveryType = deliveryAuthenticated
	default:
		return "", false
	}
	if a.version != "" {
		v, err := strconv.Atoi(strings.TrimPrefix(a.version, "v"))
		if err != nil {
			return "", false
		}
		target.Version = v
	}
	target.Transformation = transformation

	raw, err := target.String()
	if err != nil {
		log.Warn().Err(err).Str("public_id", a.publicID).Msg("cloudinary url build failed")
		return "", false
	}
	out, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	base, err := url.Parse(c.deliveryBase())
	if err != nil || base.Host == "" {
		return "", false
	}
	out.Scheme, out.Host = base.Scheme, base.Host
	out.RawQuery, out.Fragment = "", ""
	return out.String(), true
}

func (c *Cloudinary) deliveryBase() string {
	if c.DeliveryBase == "" {
		return cloudinaryDeliveryBase
	}
	return strings.TrimRight(c.DeliveryBase, "/")
}

// category is the resource type that serves the asset untransformed, derived from its format.
// Assets without a format keep the type their URL claims.
func (a cloudinaryAsset) category() string {
	switch {
	case a.format == "":
		return a.resourceType
	case imageFormats[a.format]:
		return resourceImage
	default:
		return resourceRaw
	}
}
