package classifier

import (
	"context"
	"fmt"
	"math"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"accent-check-go/internal/audio"
	"accent-check-go/internal/media"
	"accent-check-go/internal/taxonomy"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// ONNX runs an exported waveform classifier in-process. The model takes a
// [1, samples] float32 waveform and emits [1, K] class scores in taxonomy
// order; K must not exceed the taxonomy size.
type ONNX struct {
	session *ort.DynamicAdvancedSession
	labels  []taxonomy.Label
	model   string
}

// NewONNX loads the model once. The returned handle is shared by all requests.
func NewONNX(modelPath, libPath, modelID string) (*ONNX, error) {
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}
	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, fmt.Errorf("onnx: model needs one input and one output, has %d/%d", len(inputs), len(outputs))
	}
	dims := outputs[0].Dimensions
	if len(dims) == 0 {
		return nil, fmt.Errorf("onnx: output %q has no shape", outputs[0].Name)
	}
	classes := dims[len(dims)-1]
	if classes <= 0 || int(classes) > taxonomy.Size() {
		return nil, fmt.Errorf("onnx: model emits %d classes, taxonomy declares %d", classes, taxonomy.Size())
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(4)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{inputs[0].Name}, []string{outputs[0].Name}, opts)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}
	return &ONNX{
		session: session,
		labels:  taxonomy.All()[:classes],
		model:   modelID,
	}, nil
}

func (o *ONNX) ModelID() string { return o.model }

// Classify decodes the WAV file and runs one inference.
func (o *ONNX) Classify(ctx context.Context, audioPath string) (Classification, error) {
	if err := ctx.Err(); err != nil {
		return Classification{}, err
	}
	samples, format, err := audio.ReadPCM16(audioPath)
	if err != nil {
		return Classification{}, fmt.Errorf("onnx: %w", err)
	}
	if format.SampleRate != media.SampleRate {
		return Classification{}, fmt.Errorf("onnx: sample rate %d, want %d", format.SampleRate, media.SampleRate)
	}
	if len(samples) == 0 {
		return Classification{}, fmt.Errorf("onnx: %s has no samples", audioPath)
	}

	in, err := ort.NewTensor(ort.NewShape(1, int64(len(samples))), samples)
	if err != nil {
		return Classification{}, fmt.Errorf("onnx: failed to create input tensor: %w", err)
	}
	defer in.Destroy()
	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(o.labels))))
	if err != nil {
		return Classification{}, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer out.Destroy()

	if err := o.session.Run([]ort.Value{in}, []ort.Value{out}); err != nil {
		return Classification{}, fmt.Errorf("onnx: inference failed: %w", err)
	}

	probs := softmax(out.GetData())
	labels := make([]string, len(o.labels))
	for i, l := range o.labels {
		labels[i] = string(l)
	}
	return FromDistribution(labels, probs, nil)
}

// Close releases the session.
func (o *ONNX) Close() error {
	return o.session.Destroy()
}

// softmax turns logits (or log-probabilities) into probabilities.
func softmax(scores []float32) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}
	hi := math.Inf(-1)
	for _, s := range scores {
		hi = math.Max(hi, float64(s))
	}
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(float64(s) - hi)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
