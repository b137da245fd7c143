package onnxrt

import (
	"fmt"
	"slices"

	ort "github.com/yalue/onnxruntime_go"
)

// Session wraps one loaded ONNX model. Inputs are fed by name so
// callers do not depend on the export's input ordering.
type Session struct {
	path        string
	inputNames  []string
	outputNames []string
	sess        *ort.DynamicAdvancedSession
}

// OpenSession loads the model at path, introspecting its input and
// output names.
func (r *Runtime) OpenSession(path string) (*Session, error) {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("onnx runtime is closed")
	}

	inputInfo, outputInfo, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("inspect model %s: %w", path, err)
	}

	inputNames := make([]string, len(inputInfo))
	for i, info := range inputInfo {
		inputNames[i] = info.Name
	}
	outputNames := make([]string, len(outputInfo))
	for i, info := range outputInfo {
		outputNames[i] = info.Name
	}

	sess, err := ort.NewDynamicAdvancedSession(path, inputNames, outputNames, nil)
	if err != nil {
		return nil, fmt.Errorf("open session %s: %w", path, err)
	}

	r.log.Debug("session opened", "model", path, "inputs", inputNames, "outputs", outputNames)

	return &Session{
		path:        path,
		inputNames:  inputNames,
		outputNames: outputNames,
		sess:        sess,
	}, nil
}

// InputNames returns the model's input names in declaration order.
func (s *Session) InputNames() []string {
	return slices.Clone(s.inputNames)
}

// OutputNames returns the model's output names in declaration order.
func (s *Session) OutputNames() []string {
	return slices.Clone(s.outputNames)
}

// HasInput reports whether the model declares the named input.
func (s *Session) HasInput(name string) bool {
	return slices.Contains(s.inputNames, name)
}

// Run feeds the named tensors and returns one runtime-allocated output
// value per declared output, in declaration order. The caller owns the
// returned values and must Destroy them.
func (s *Session) Run(feeds map[string]ort.Value) ([]ort.Value, error) {
	inputs := make([]ort.Value, len(s.inputNames))
	for i, name := range s.inputNames {
		v, ok := feeds[name]
		if !ok {
			return nil, fmt.Errorf("model %s: missing input %q", s.path, name)
		}
		inputs[i] = v
	}
	if len(feeds) != len(s.inputNames) {
		for name := range feeds {
			if !slices.Contains(s.inputNames, name) {
				return nil, fmt.Errorf("model %s: unknown input %q", s.path, name)
			}
		}
	}

	outputs := make([]ort.Value, len(s.outputNames))
	if err := s.sess.Run(inputs, outputs); err != nil {
		return nil, fmt.Errorf("run %s: %w", s.path, err)
	}
	return outputs, nil
}

// Output locates a named output in the slice returned by Run.
func (s *Session) Output(outputs []ort.Value, name string) (ort.Value, error) {
	for i, n := range s.outputNames {
		if n == name {
			return outputs[i], nil
		}
	}
	return nil, fmt.Errorf("model %s: no output %q", s.path, name)
}

// Close releases the session.
func (s *Session) Close() error {
	if s.sess == nil {
		return nil
	}
	err := s.sess.Destroy()
	s.sess = nil
	return err
}

// DestroyAll destroys every non-nil value in vals. Helper for
// releasing Run outputs.
func DestroyAll(vals []ort.Value) {
	for _, v := range vals {
		if v != nil {
			v.Destroy()
		}
	}
}
