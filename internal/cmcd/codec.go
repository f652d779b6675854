// Package cmcd implements a stateless encoder/decoder between a MetricRecord
// and the CTA-5004-style key/value wire string. The string doubles as an HTTP
// request header value for collectors that parse headers instead of bodies.
package cmcd

import (
	"math"
	"strconv"
	"strings"

	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/models"
)

const keyPrefix = "CMCD-"

// Wire keys, in canonical emit order: continuous metrics, then counters,
// then timing, then the context correlation keys.
const (
	keyBandwidth          = "Bandwidth"
	keyBufferLength       = "BufferLength"
	keyMeasuredThroughput = "MeasuredThroughput"
	keyObjectDuration     = "ObjectDuration"
	keyPlaybackRate       = "PlaybackRate"

	keyDecodedFrames     = "DecodedFrames"
	keyDroppedFrames     = "DroppedFrames"
	keyQualityLevel      = "QualityLevel"
	keyQualityChanges    = "QualityChanges"
	keyRebufferingEvents = "RebufferingEvents"

	keyLoadTime        = "LoadTime"
	keyStartupTime     = "StartupTime"
	keyRebufferingTime = "RebufferingTime"

	keyFlowID    = "FlowID"
	keySegmentID = "SegmentID"
	keySourceID  = "SourceID"
)

// Encode emits the present fields of record as comma-joined
// "CMCD-<Key>=<value>" pairs in canonical field order. BufferLength,
// ObjectDuration and RebufferingTime are stored as seconds but emitted as
// integer milliseconds; the conceptually integral fields are rounded;
// PlaybackRate and MeasuredThroughput are emitted as decimals. A record with
// no optional fields encodes to the empty string.
func Encode(record *models.MetricRecord) string {
	var pairs []string

	appendInt := func(key string, v *float64) {
		if v != nil {
			pairs = append(pairs, pair(key, strconv.FormatInt(int64(math.Round(*v)), 10)))
		}
	}
	appendSecondsAsMillis := func(key string, v *float64) {
		if v != nil {
			pairs = append(pairs, pair(key, strconv.FormatInt(int64(math.Round(*v*1000)), 10)))
		}
	}
	appendDecimal := func(key string, v *float64) {
		if v != nil {
			pairs = append(pairs, pair(key, strconv.FormatFloat(*v, 'f', -1, 64)))
		}
	}
	appendCounter := func(key string, v *int64) {
		if v != nil {
			pairs = append(pairs, pair(key, strconv.FormatInt(*v, 10)))
		}
	}
	appendString := func(key, v string) {
		if v != "" {
			pairs = append(pairs, pair(key, v))
		}
	}

	appendInt(keyBandwidth, record.Bandwidth)
	appendSecondsAsMillis(keyBufferLength, record.BufferLength)
	appendDecimal(keyMeasuredThroughput, record.MeasuredThroughput)
	appendSecondsAsMillis(keyObjectDuration, record.ObjectDuration)
	appendDecimal(keyPlaybackRate, record.PlaybackRate)

	appendCounter(keyDecodedFrames, record.DecodedFrames)
	appendCounter(keyDroppedFrames, record.DroppedFrames)
	appendCounter(keyQualityLevel, record.QualityLevel)
	appendCounter(keyQualityChanges, record.QualityChanges)
	appendCounter(keyRebufferingEvents, record.RebufferingEvents)

	appendInt(keyLoadTime, record.LoadTime)
	appendInt(keyStartupTime, record.StartupTime)
	appendSecondsAsMillis(keyRebufferingTime, record.RebufferingTime)

	appendString(keyFlowID, record.FlowID)
	appendString(keySegmentID, record.SegmentID)
	appendString(keySourceID, record.SourceID)

	return strings.Join(pairs, ",")
}

func pair(key, value string) string {
	return keyPrefix + key + "=" + value
}

// Decode parses a CMCD wire string back into a partial MetricRecord,
// reversing the unit conversions done on encode. Decode never fails:
// malformed entries (missing "=", empty key or value) are skipped, unknown
// keys are ignored, and whatever valid pairs could be parsed are returned.
func Decode(s string) *models.MetricRecord {
	record := &models.MetricRecord{}

	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		key, value, found := strings.Cut(entry, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		key = strings.TrimPrefix(key, keyPrefix)

		decodeField(record, key, value)
	}

	return record
}

func decodeField(record *models.MetricRecord, key, value string) {
	setFloat := func(dst **float64) {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			*dst = &v
		}
	}
	setMillisAsSeconds := func(dst **float64) {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			seconds := v / 1000
			*dst = &seconds
		}
	}
	setCounter := func(dst **int64) {
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			*dst = &v
		}
	}

	switch key {
	case keyBandwidth:
		setFloat(&record.Bandwidth)
	case keyBufferLength:
		setMillisAsSeconds(&record.BufferLength)
	case keyMeasuredThroughput:
		setFloat(&record.MeasuredThroughput)
	case keyObjectDuration:
		setMillisAsSeconds(&record.ObjectDuration)
	case keyPlaybackRate:
		setFloat(&record.PlaybackRate)
	case keyDecodedFrames:
		setCounter(&record.DecodedFrames)
	case keyDroppedFrames:
		setCounter(&record.DroppedFrames)
	case keyQualityLevel:
		setCounter(&record.QualityLevel)
	case keyQualityChanges:
		setCounter(&record.QualityChanges)
	case keyRebufferingEvents:
		setCounter(&record.RebufferingEvents)
	case keyLoadTime:
		setFloat(&record.LoadTime)
	case keyStartupTime:
		setFloat(&record.StartupTime)
	case keyRebufferingTime:
		setMillisAsSeconds(&record.RebufferingTime)
	case keyFlowID:
		record.FlowID = value
	case keySegmentID:
		record.SegmentID = value
	case keySourceID:
		record.SourceID = value
	}
}
