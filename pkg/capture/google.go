package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

// GoogleConfig configures Google Cloud Speech-to-Text streaming.
type GoogleConfig struct {
	// APIKey or CredentialsFile authenticates the client. With neither,
	// application default credentials are used.
	APIKey          string
	CredentialsFile string

	Language   string
	SampleRate int
	Model      string
}

// Google recognizes speech with Google Cloud streaming recognition.
type Google struct {
	client *speech.Client
	cfg    GoogleConfig

	mu sync.Mutex
	// carry is audio read from the source after the server ended a stream.
	// It opens the next stream.
	carry []int16
}

// NewGoogle dials the Speech-to-Text API.
func NewGoogle(ctx context.Context, cfg GoogleConfig) (*Google, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultSampleRate
	}

	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}
	return &Google{client: client, cfg: cfg}, nil
}

// Close releases the client connection.
func (g *Google) Close() error {
	return g.client.Close()
}

func (g *Google) streamingConfig() *speechpb.StreamingRecognizeRequest {
	return &speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:                   speechpb.RecognitionConfig_LINEAR16,
					SampleRateHertz:            int32(g.cfg.SampleRate),
					AudioChannelCount:          channelCount,
					LanguageCode:               g.cfg.Language,
					Model:                      g.cfg.Model,
					EnableAutomaticPunctuation: true,
				},
				InterimResults: true,
			},
		},
	}
}

// Recognize implements Recognizer over one streaming call.
func (g *Google) Recognize(parent context.Context, audio <-chan []int16, emit func(Result)) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	stream, err := g.client.StreamingRecognize(ctx)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	if err := stream.Send(g.streamingConfig()); err != nil {
		return fmt.Errorf("send config: %w", err)
	}
	if carry := g.takeCarry(); carry != nil {
		if err := stream.Send(audioRequest(carry)); err != nil {
			return fmt.Errorf("send audio: %w", err)
		}
	}

	eg := new(errgroup.Group)

	eg.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case samples, ok := <-audio:
				if !ok {
					return stream.CloseSend()
				}
				if err := stream.Send(audioRequest(samples)); err != nil {
					if errors.Is(err, io.EOF) || ctx.Err() != nil {
						// The server closed the stream; Recv reports why.
						g.keep(samples)
						return nil
					}
					cancel()
					return fmt.Errorf("send audio: %w", err)
				}
			}
		}
	})

	eg.Go(func() error {
		// Unblock the sender once the server is done with this stream.
		defer cancel()
		for {
			resp, err := stream.Recv()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fmt.Errorf("receive: %w", err)
			}
			if st := resp.GetError(); st != nil && st.GetCode() != 0 {
				return fmt.Errorf("recognition error %d: %s", st.GetCode(), st.GetMessage())
			}
			for _, result := range resp.GetResults() {
				alts := result.GetAlternatives()
				if len(alts) == 0 {
					continue
				}
				emit(Result{Text: alts[0].GetTranscript(), Final: result.GetIsFinal()})
			}
		}
	})

	err = eg.Wait()
	if parent.Err() != nil {
		g.takeCarry()
		return parent.Err()
	}
	return err
}

func audioRequest(samples []int16) *speechpb.StreamingRecognizeRequest {
	return &speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: pcmBytes(samples),
		},
	}
}

func (g *Google) keep(samples []int16) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.carry = samples
}

func (g *Google) takeCarry() []int16 {
	g.mu.Lock()
	defer g.mu.Unlock()
	c := g.carry
	g.carry = nil
	return c
}
