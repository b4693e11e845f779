package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/geostamp/geostamp"
	"github.com/geostamp/geostamp/camera"
	"github.com/geostamp/geostamp/export"
	"github.com/geostamp/geostamp/geocode"
	"github.com/geostamp/geostamp/imop"
	"github.com/geostamp/geostamp/internal/env"
	"github.com/geostamp/geostamp/location"
	"github.com/geostamp/geostamp/overlay"
	"github.com/geostamp/geostamp/utils"
)

const HelpBanner = `
┌─┐┌─┐┌─┐┌─┐┌┬┐┌─┐┌┬┐┌─┐
│ ┬├┤ │ │└─┐ │ ├─┤│││├─┘
└─┘└─┘└─┘└─┘ ┴ ┴ ┴┴ ┴┴

Stamp photos with location and time.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source image, URL or directory")
	destination = flag.String("out", ".", "Download directory, or - for stdout")
	prefix      = flag.String("prefix", "", "File name prefix (default $GEOSTAMP_PREFIX or geostamp)")
	latitude    = flag.Float64("lat", 0, "Latitude for the static provider")
	longitude   = flag.Float64("lon", 0, "Longitude for the static provider")
	accuracy    = flag.Float64("acc", 0, "Accuracy radius in meters for the static provider")
	locateMode  = flag.String("locate", "auto", "Location provider: static, ip, none or auto")
	geocoderURL = flag.String("geocoder", "", "Nominatim base URL, or none to skip reverse geocoding")
	timeout     = flag.Duration("timeout", location.DefaultTimeout, "Location request timeout")
	accurate    = flag.Bool("accurate", true, "Ask the location provider for a high accuracy fix")
	maxAge      = flag.Duration("max-age", 0, "Reuse a location fix younger than this")
	geoTimeout  = flag.Duration("geo-timeout", geocode.DefaultTimeout, "Reverse geocoding timeout")
	bandColor   = flag.String("band", "#000000bf", "Band color as #rrggbbaa")
	blendMode   = flag.String("blend", imop.Normal, "Band blend mode: "+strings.Join(imop.BlendModes, ", "))
	compositeOp = flag.String("composite", imop.SrcOver, "Band composite operation: "+strings.Join(imop.Ops, ", "))
	blurSigma   = flag.Float64("blur", 0, "Blur the backdrop under the band by this sigma")
	maxSize     = flag.Int("max", 0, "Downscale frames larger than this size")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
	device      = flag.Int("device", -1, "Capture from this video device index instead of -in")
	bucket      = flag.String("s3-bucket", "", "Upload captures to this bucket and print a download link")
	debug       = flag.Bool("debug", false, "Log swallowed location and geocoding failures")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := env.LoadEnv(); err != nil {
		log.Println(utils.DecorateText("Could not read the .env file: "+err.Error(), utils.ErrorMessage))
	}
	geocode.SetDebugLogging(*debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := newProvider()
	if err != nil {
		fatal("Invalid location settings", err)
	}
	compositor, err := newCompositor()
	if err != nil {
		fatal("Invalid band settings", err)
	}

	op := &geostamp.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Workers:  *workers,
	}
	sink := op.DefaultSink()
	if *bucket != "" {
		sink, err = export.NewS3Sink(ctx, export.S3Config{
			Endpoint:  env.Get("MINIO_ENDPOINT", ""),
			AccessKey: env.Get("MINIO_ACCESS_KEY", ""),
			SecretKey: env.Get("MINIO_SECRET_KEY", ""),
			UseSSL:    env.Bool("MINIO_USE_SSL", false),
			Bucket:    *bucket,
		})
		if err != nil {
			fatal("Failed to connect to the object store", err)
		}
	}

	proc := &geostamp.Processor{
		Provider:       provider,
		Geocoder:       newGeocoder(),
		Compositor:     compositor,
		Namer:          export.NewNamer(firstNonEmpty(*prefix, env.Get("GEOSTAMP_PREFIX", export.DefaultPrefix))),
		Sink:           sink,
		LocateTimeout:  *timeout,
		GeocodeTimeout: *geoTimeout,
		HighAccuracy:   *accurate,
		MaximumAge:     *maxAge,
		MaxSize:        *maxSize,
		Debug:          *debug,
		Spinner: utils.NewSpinner(
			utils.Banner("⇢ stamping the capture...", utils.DefaultMessage),
			time.Millisecond*80, true,
		),
	}

	// Restore the cursor visibility when the run is interrupted.
	go func() {
		<-ctx.Done()
		proc.Spinner.RestoreCursor()
	}()

	if *device >= 0 {
		cam, err := camera.OpenDevice(*device)
		if err != nil {
			fatal("Camera not ready", err)
		}
		defer cam.Close()

		s, err := proc.Capture(ctx, cam)
		if s.LocationErr != nil {
			log.Println(utils.Banner(s.Status(), utils.DefaultMessage))
		}
		if err != nil {
			fatal("Capture failed", err)
		}
		fmt.Fprintf(os.Stderr, "The capture has been saved as: %s\n",
			utils.DecorateText(s.Artifact.Location, utils.SuccessMessage))
		return
	}

	if err := proc.Execute(ctx, op); err != nil {
		fatal("Error stamping the image", err)
	}
}

// newProvider builds the location provider selected by -locate.
func newProvider() (location.Provider, error) {
	mode := *locateMode
	if mode == "auto" {
		mode = "ip"
		flag.Visit(func(f *flag.Flag) {
			if f.Name == "lat" || f.Name == "lon" {
				mode = "static"
			}
		})
	}

	switch mode {
	case "static":
		coord := location.Coordinate{Latitude: *latitude, Longitude: *longitude, AccuracyMeters: *accuracy}
		if err := coord.Validate(); err != nil {
			return nil, err
		}
		return location.Static{Coord: coord}, nil
	case "ip":
		return &location.Cached{Provider: &location.IPLookup{
			URL:       env.Get("GEOSTAMP_IPAPI_URL", location.DefaultIPLookupURL),
			UserAgent: env.Get("GEOSTAMP_USER_AGENT", geocode.DefaultUserAgent),
		}}, nil
	case "none":
		return location.Unsupported{}, nil
	}
	return nil, fmt.Errorf("unknown location provider %q", mode)
}

// newGeocoder builds the reverse geocoder; nil disables lookups.
func newGeocoder() geocode.Geocoder {
	base := firstNonEmpty(*geocoderURL, env.Get("GEOSTAMP_NOMINATIM_URL", geocode.DefaultBaseURL))
	if base == "none" {
		return nil
	}
	n := geocode.NewNominatim()
	n.BaseURL = base
	n.UserAgent = env.Get("GEOSTAMP_USER_AGENT", geocode.DefaultUserAgent)
	n.Timeout = *geoTimeout
	return n
}

// newCompositor applies the band flags to the default compositor.
func newCompositor() (*overlay.Compositor, error) {
	c := overlay.NewCompositor()
	col, err := utils.ParseHexColor(*bandColor)
	if err != nil {
		return nil, err
	}
	if !utils.Contains(imop.BlendModes, *blendMode) {
		return nil, fmt.Errorf("unsupported blend mode %q", *blendMode)
	}
	if !utils.Contains(imop.Ops, *compositeOp) {
		return nil, fmt.Errorf("unsupported composite operation %q", *compositeOp)
	}
	c.BandColor = col
	c.Blend = *blendMode
	c.Composite = *compositeOp
	c.BlurSigma = *blurSigma
	return c, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func fatal(msg string, err error) {
	log.Fatalf("%s\n\tReason: %s\n",
		utils.DecorateText(msg, utils.ErrorMessage),
		utils.DecorateText(err.Error(), utils.DefaultMessage),
	)
}
