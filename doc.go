/*
Package geostamp stamps photos with where and when they were taken.

A capture requests a fresh position fix, grabs one frame, reverse geocodes
the fix to a display address and draws the address, the coordinates, the
accuracy and the capture time on a translucent band along the bottom edge.
The stamped frame is exported as a JPEG named after the capture time.

A failed fix or geocode never blocks a capture; the band shows placeholder
values instead. A camera that cannot deliver a frame aborts the capture
before anything is exported.

The package ships with a command line interface. To check the supported flags type:

	$ geostamp --help

To use the API directly:

	package main

	import (
		"context"
		"fmt"

		"github.com/geostamp/geostamp"
		"github.com/geostamp/geostamp/camera"
		"github.com/geostamp/geostamp/export"
		"github.com/geostamp/geostamp/geocode"
		"github.com/geostamp/geostamp/location"
	)

	func main() {
		p := &geostamp.Processor{
			Provider: location.Static{Coord: location.Coordinate{Latitude: 45.07, Longitude: 7.68, AccuracyMeters: 10}},
			Geocoder: geocode.NewNominatim(),
			Sink:     export.DirSink{Dir: "downloads"},
		}

		s, err := p.Capture(context.Background(), camera.FileSource{Path: "photo.jpg"})
		if err != nil {
			fmt.Printf("Error stamping the capture: %s", err.Error())
		}
		fmt.Println(s.Status())
	}
*/
package geostamp
