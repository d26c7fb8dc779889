// Device simulator for exercising the wake protocol against a live engine.
//
// It plays the camera side of the conversation: announce a wake, obey the
// capture command, stream fragments, answer missing-fragment requests, and
// power down on the final sleep ack.
package main

import (
	cryptoRand "crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/big"
	"os"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/carverauto/canopy/pkg/models"
)

const (
	minImageSize = 30000
	maxImageSize = 80000
)

func main() {
	var (
		natsURL   = flag.String("nats", nats.DefaultURL, "NATS server URL")
		deviceID  = flag.String("device", "SIM-CAM-001", "Device ID to announce")
		prefix    = flag.String("prefix", "canopy.device", "Subject prefix the engine listens on")
		mode      = flag.String("mode", "normal", "Scenario: normal, missing, error")
		pending   = flag.Int("pending", 0, "Pending capture count to report")
		imagePath = flag.String("image", "", "Path to a JPEG to send (generated when empty)")
		chunkSize = flag.Int("chunk-size", 8192, "Fragment payload size in bytes")
		timeout   = flag.Duration("timeout", 45*time.Second, "How long to wait for the final sleep ack")
	)
	flag.Parse()

	switch *mode {
	case "normal", "missing", "error":
	default:
		log.Fatalf("Unknown mode %q (want normal, missing, or error)", *mode)
	}

	nc, err := nats.Connect(*natsURL, nats.Name("canopy-devicesim"))
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer nc.Close()

	log.Printf("Connected to %s as device %s (mode: %s)", nc.ConnectedUrl(), *deviceID, *mode)

	dev := &device{
		nc:        nc,
		id:        *deviceID,
		prefix:    *prefix,
		mode:      *mode,
		chunkSize: *chunkSize,
		imagePath: *imagePath,
	}

	if err := dev.runWake(*pending, *timeout); err != nil {
		log.Fatalf("Wake failed: %v", err)
	}
}

type device struct {
	nc        *nats.Conn
	id        string
	prefix    string
	mode      string
	chunkSize int
	imagePath string

	image []byte
}

// runWake drives one full wake: status out, then react to commands and acks
// until the sleep ack arrives or the timeout expires.
func (d *device) runWake(pending int, timeout time.Duration) error {
	cmds := make(chan models.DeviceCommand, 8)
	acks := make(chan []byte, 8)

	cmdSub, err := d.nc.Subscribe(d.subject("cmd"), func(msg *nats.Msg) {
		var cmd models.DeviceCommand
		if err := json.Unmarshal(msg.Data, &cmd); err != nil {
			log.Printf("Ignoring unparseable command: %v", err)
			return
		}
		cmds <- cmd
	})
	if err != nil {
		return fmt.Errorf("subscribe cmd: %w", err)
	}
	defer func() { _ = cmdSub.Unsubscribe() }()

	ackSub, err := d.nc.Subscribe(d.subject("ack"), func(msg *nats.Msg) {
		acks <- msg.Data
	})
	if err != nil {
		return fmt.Errorf("subscribe ack: %w", err)
	}
	defer func() { _ = ackSub.Unsubscribe() }()

	if err := d.announce(pending); err != nil {
		return err
	}

	deadline := time.After(timeout)

	for {
		select {
		case cmd := <-cmds:
			switch {
			case cmd.CaptureImage && cmd.SendImage != "":
				log.Printf("Capture requested: %s", cmd.SendImage)

				if d.mode == "error" {
					if err := d.reportCaptureFailure(cmd.SendImage); err != nil {
						return err
					}

					log.Printf("Capture failure reported, powering down")

					return nil
				}

				if err := d.sendImage(cmd.SendImage); err != nil {
					return err
				}
			case cmd.NextWake != "":
				log.Printf("Next wake scheduled for %s", cmd.NextWake)
			}

		case raw := <-acks:
			done, err := d.handleAck(raw)
			if err != nil {
				return err
			}

			if done {
				return nil
			}

		case <-deadline:
			return fmt.Errorf("no sleep ack within %s", timeout)
		}
	}
}

func (d *device) subject(kind string) string {
	return d.prefix + "." + d.id + "." + kind
}

func (d *device) announce(pending int) error {
	status := models.StatusMessage{
		DeviceID:      d.id,
		Status:        "awake",
		PendingImages: pending,
		Telemetry:     readSensors(),
	}

	log.Printf("Announcing wake (pending: %d)", pending)

	return d.publish(d.subject("status"), status)
}

// readSensors fabricates a BME680-style reading with a little jitter.
func readSensors() models.Telemetry {
	temp := 21.5 + float64(randInt(0, 30))/10
	hum := 45.0 + float64(randInt(0, 100))/10
	press := 1013.0 + float64(randInt(0, 20))/10
	gas := 15.3

	return models.Telemetry{
		Temperature:   &temp,
		Humidity:      &hum,
		Pressure:      &press,
		GasResistance: &gas,
	}
}

// sendImage sends the metadata declaration followed by every fragment. In
// missing mode a few fragments are withheld on the first pass so the engine
// has to ask for them.
func (d *device) sendImage(name string) error {
	data, err := d.loadImage()
	if err != nil {
		return err
	}

	d.image = data

	total := (len(data) + d.chunkSize - 1) / d.chunkSize

	meta := models.ImageMetadata{
		DeviceID:         d.id,
		CaptureTimestamp: time.Now().UTC().Format(time.RFC3339),
		ImageName:        name,
		ImageSize:        len(data),
		MaxChunkSize:     d.chunkSize,
		TotalChunks:      total,
		Telemetry:        readSensors(),
	}

	log.Printf("Sending %s: %d bytes in %d fragments", name, len(data), total)

	if err := d.publish(d.subject("data"), &meta); err != nil {
		return err
	}

	dropped := d.droppedIndices(total)

	sent := 0

	for i := range total {
		if dropped[i] {
			log.Printf("Withholding fragment %d/%d", i+1, total)
			continue
		}

		if err := d.sendFragment(name, i); err != nil {
			return err
		}

		sent++
	}

	log.Printf("First pass complete (%d/%d fragments sent)", sent, total)

	return nil
}

func (d *device) reportCaptureFailure(name string) error {
	meta := models.ImageMetadata{
		DeviceID:  d.id,
		ImageName: name,
		Error:     "camera fault",
	}

	return d.publish(d.subject("data"), &meta)
}

// droppedIndices picks the fragments withheld on the first pass in missing
// mode, mirroring the gaps a flaky uplink produces.
func (d *device) droppedIndices(total int) map[int]bool {
	dropped := make(map[int]bool)

	if d.mode != "missing" {
		return dropped
	}

	for _, idx := range []int{2, 5, 8} {
		// Never drop the last fragment: its arrival is what prompts the
		// engine to audit the transfer.
		if idx < total-1 {
			dropped[idx] = true
		}
	}

	return dropped
}

func (d *device) sendFragment(name string, index int) error {
	start := index * d.chunkSize

	end := start + d.chunkSize
	if end > len(d.image) {
		end = len(d.image)
	}

	frag := models.ImageFragment{
		DeviceID:     d.id,
		ImageName:    name,
		Index:        index,
		MaxChunkSize: d.chunkSize,
		Payload:      d.image[start:end],
	}

	return d.publish(d.subject("data"), &frag)
}

// handleAck reacts to a server ack: resend the requested fragments, or shut
// down on the final sleep acknowledgment.
func (d *device) handleAck(raw []byte) (done bool, err error) {
	var sleep models.SleepAck
	if err := json.Unmarshal(raw, &sleep); err == nil && sleep.AckOK.NextWakeTime != "" {
		log.Printf("Transfer acknowledged, next wake at %s", sleep.AckOK.NextWakeTime)
		log.Printf("Powering down")

		return true, nil
	}

	var missing models.MissingFragmentAck
	if err := json.Unmarshal(raw, &missing); err == nil && len(missing.MissingChunks) > 0 {
		log.Printf("Server requests %d missing fragments: %v", len(missing.MissingChunks), missing.MissingChunks)

		if len(d.image) == 0 {
			return false, fmt.Errorf("missing-fragment request for %s before any capture", missing.ImageName)
		}

		for _, idx := range missing.MissingChunks {
			if err := d.sendFragment(missing.ImageName, idx); err != nil {
				return false, err
			}

			log.Printf("Resent fragment %d", idx)
		}

		return false, nil
	}

	log.Printf("Ignoring unrecognized ack: %s", raw)

	return false, nil
}

// loadImage reads the configured file or fabricates a JPEG-framed blob of
// random bytes sized like a field capture.
func (d *device) loadImage() ([]byte, error) {
	if d.imagePath != "" {
		data, err := os.ReadFile(d.imagePath)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}

		log.Printf("Loaded %s: %d bytes", d.imagePath, len(data))

		return data, nil
	}

	size := randInt(minImageSize, maxImageSize)

	data := make([]byte, size)
	data[0], data[1], data[2], data[3] = 0xFF, 0xD8, 0xFF, 0xE0

	if _, err := cryptoRand.Read(data[4 : size-2]); err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}

	data[size-2], data[size-1] = 0xFF, 0xD9

	return data, nil
}

func (d *device) publish(subject string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal for %s: %w", subject, err)
	}

	if err := d.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}

	return nil
}

func randInt(minVal, maxVal int) int {
	if minVal >= maxVal {
		return minVal
	}

	n, _ := cryptoRand.Int(cryptoRand.Reader, big.NewInt(int64(maxVal-minVal+1)))

	return int(n.Int64()) + minVal
}
