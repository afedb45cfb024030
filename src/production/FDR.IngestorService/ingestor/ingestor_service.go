package fdringestor

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	config "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Config"
	"gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.IngestorService/client"
	logger "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Logger"
	feedermodels "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Models"
)

// Ingestor bridges weight telemetry published by feeder firmware over
// MQTT into the API service's weight-update endpoint. The HTTP
// contract stays authoritative; the bridge never writes to storage
// directly.
type Ingestor struct {
	cfg        *config.IngestorConfig
	apiClient  *client.APIClient
	mqttClient mqtt.Client
	msgCh      chan feedermodels.WeightReport
	wg         sync.WaitGroup
	logger     *logger.Logger
}

func New(cfg *config.IngestorConfig, apiClient *client.APIClient, logger *logger.Logger) *Ingestor {
	return &Ingestor{
		cfg:       cfg,
		apiClient: apiClient,
		msgCh:     make(chan feedermodels.WeightReport, 4096),
		logger:    logger,
	}
}

func (i *Ingestor) Start(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(i.cfg.GetMQTTBrokerURL()).
		SetClientID(i.cfg.MQTT.ClientID).
		SetOrderMatters(false).
		SetKeepAlive(i.cfg.MQTT.KeepAlive).
		SetPingTimeout(i.cfg.MQTT.PingTimeout).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetCleanSession(false)

	if i.cfg.MQTT.BrokerUser != "" {
		opts.SetUsername(i.cfg.MQTT.BrokerUser)
		opts.SetPassword(i.cfg.MQTT.BrokerPass)
	}

	if i.cfg.MQTT.UseTLS {
		tlsCfg, err := i.tlsConfig(i.cfg.MQTT.CACertPath)
		if err != nil {
			return err
		}
		opts.SetTLSConfig(tlsCfg)
	}

	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		i.logger.Logger.Error().Err(err).Msg("MQTT connection lost")
	}
	opts.OnConnect = func(c mqtt.Client) {
		topic := i.cfg.MQTT.Topic
		if i.cfg.MQTT.SharedGroup != "" {
			topic = fmt.Sprintf("$share/%s/%s", i.cfg.MQTT.SharedGroup, i.cfg.MQTT.Topic)
		}
		i.logger.Logger.Info().Str("topic", topic).Msg("MQTT connected, subscribing to topic")
		if token := c.Subscribe(topic, 1, i.onMessage); token.Wait() && token.Error() != nil {
			i.logger.Logger.Error().Err(token.Error()).Str("topic", topic).Msg("Failed to subscribe to MQTT topic")
		}
	}

	i.mqttClient = mqtt.NewClient(opts)
	if tk := i.mqttClient.Connect(); tk.Wait() && tk.Error() != nil {
		return tk.Error()
	}

	// batch forwarder
	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		i.batchForwarder(ctx)
	}()

	return nil
}

func (i *Ingestor) Stop() {
	if i.mqttClient != nil && i.mqttClient.IsConnected() {
		i.mqttClient.Disconnect(500)
	}
	close(i.msgCh)
	i.wg.Wait()
}

func (i *Ingestor) IsConnected() bool {
	return i.mqttClient != nil && i.mqttClient.IsConnected()
}

func (i *Ingestor) onMessage(_ mqtt.Client, m mqtt.Message) {
	i.logger.Logger.Debug().Str("topic", m.Topic()).Str("payload", string(m.Payload())).Msg("Received MQTT message")

	report, err := ParseWeightMessage(m.Topic(), m.Payload())
	if err != nil {
		i.logger.Logger.Warn().Err(err).Str("topic", m.Topic()).Msg("Dropping malformed weight message")
		deviceID := "unknown"
		if parts := strings.Split(m.Topic(), "/"); len(parts) >= 2 {
			deviceID = parts[1]
		}
		i.publishError(deviceID, "invalid_message", err.Error())
		return
	}

	i.logger.Logger.Debug().Str("device_id", report.DeviceID).Float64("weight", report.Weight).Msg("Queuing weight report")
	i.msgCh <- report
}

// ParseWeightMessage extracts a weight report from a telemetry
// message. Expected topic format: feeders/<device_id>/weight. The
// payload is either a JSON object with a "weight" field or a bare
// number.
func ParseWeightMessage(topic string, payload []byte) (feedermodels.WeightReport, error) {
	parts := strings.Split(topic, "/")
	if len(parts) < 3 || parts[1] == "" {
		return feedermodels.WeightReport{}, fmt.Errorf("invalid topic format: %s, expected: feeders/<device_id>/weight", topic)
	}
	deviceID := parts[1]

	var body struct {
		Weight *float64 `json:"weight"`
	}
	if err := json.Unmarshal(payload, &body); err == nil && body.Weight != nil {
		return feedermodels.WeightReport{
			DeviceID:   deviceID,
			Weight:     *body.Weight,
			Topic:      topic,
			ReceivedAt: time.Now().UTC(),
		}, nil
	}

	weight, err := strconv.ParseFloat(strings.TrimSpace(string(payload)), 64)
	if err != nil {
		return feedermodels.WeightReport{}, fmt.Errorf("payload is neither a weight object nor a number: %q", string(payload))
	}

	return feedermodels.WeightReport{
		DeviceID:   deviceID,
		Weight:     weight,
		Topic:      topic,
		ReceivedAt: time.Now().UTC(),
	}, nil
}

func (i *Ingestor) batchForwarder(ctx context.Context) {
	batch := make([]feedermodels.WeightReport, 0, i.cfg.BatchSize)
	timer := time.NewTimer(i.cfg.BatchWindow)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		i.logger.Logger.Info().Int("batch_size", len(batch)).Msg("Forwarding weight reports to API service")

		for _, report := range batch {
			if err := i.apiClient.ReportWeight(ctx, report); err != nil {
				i.logger.Logger.Error().Err(err).Str("device_id", report.DeviceID).Msg("Error forwarding weight report")
				i.publishError(report.DeviceID, "report_weight_error", fmt.Sprintf("Failed to forward weight report: %v", err))
			}
		}

		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case report, ok := <-i.msgCh:
			if !ok {
				flush()
				return
			}
			batch = append(batch, report)
			if len(batch) >= i.cfg.BatchSize {
				flush()
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(i.cfg.BatchWindow)
			}
		case <-timer.C:
			flush()
			timer.Reset(i.cfg.BatchWindow)
		}
	}
}

func (i *Ingestor) tlsConfig(caFile string) (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if caFile == "" {
		return cfg, nil
	}
	ca, err := os.ReadFile(caFile)
	if err != nil {
		return nil, err
	}
	cp := x509.NewCertPool()
	if !cp.AppendCertsFromPEM(ca) {
		return nil, fmt.Errorf("bad CA file")
	}
	cfg.RootCAs = cp
	return cfg, nil
}

// publishError publishes an error message to the error topic for device feedback
func (i *Ingestor) publishError(deviceID, errorType, message string) {
	if i.mqttClient == nil || !i.mqttClient.IsConnected() {
		return
	}

	errorPayload := map[string]interface{}{
		"error_type": errorType,
		"message":    message,
		"device_id":  deviceID,
		"timestamp":  time.Now().UTC(),
	}

	payloadJSON, err := json.Marshal(errorPayload)
	if err != nil {
		i.logger.Logger.Error().Err(err).Msg("Failed to marshal error payload")
		return
	}

	errorTopic := fmt.Sprintf("feeders/errors/%s", deviceID)
	token := i.mqttClient.Publish(errorTopic, 1, false, payloadJSON)

	if token.Wait() && token.Error() != nil {
		i.logger.Logger.Error().Err(token.Error()).Str("topic", errorTopic).Msg("Failed to publish error")
	}
}
