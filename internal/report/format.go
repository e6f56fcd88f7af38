package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatSize renders a byte count with binary prefixes (base 1024), rounded to
// two decimals with trailing zeros dropped: "0 B", "512 B", "1.5 KB", "2 MB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}

	v := float64(bytes)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}

	rounded := math.Round(v*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + sizeUnits[i]
}

// timestampLayout is the civil part of a rendered timestamp.
const timestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders t as "YYYY-MM-DD HH:MM:SS (Zone / GMT+hh:mm)". The
// civil time is UTC; the zone name and offset describe loc at instant t.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	_, offset := t.In(loc).Zone()
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}

	return fmt.Sprintf("%s (%s / GMT%c%02d:%02d)",
		t.UTC().Format(timestampLayout), ZoneName(loc), sign, offset/3600, (offset%3600)/60)
}

// ZoneName returns the IANA name of loc. For time.Local the name is resolved
// from $TZ, then from the /etc/localtime link target, falling back to "UTC".
func ZoneName(loc *time.Location) string {
	if loc == nil || loc == time.Local {
		return localZoneName()
	}
	return loc.String()
}

func localZoneName() string {
	if tz, ok := os.LookupEnv("TZ"); ok {
		tz = strings.TrimPrefix(tz, ":")
		if tz == "" {
			return "UTC"
		}
		if filepath.IsAbs(tz) {
			if name, ok := zoneFromPath(tz); ok {
				return name
			}
		}
		return tz
	}

	if target, err := os.Readlink("/etc/localtime"); err == nil {
		if name, ok := zoneFromPath(target); ok {
			return name
		}
	}

	return "UTC"
}

func zoneFromPath(p string) (string, bool) {
	p = filepath.ToSlash(p)
	idx := strings.LastIndex(p, "zoneinfo/")
	if idx < 0 {
		return "", false
	}
	return p[idx+len("zoneinfo/"):], true
}
