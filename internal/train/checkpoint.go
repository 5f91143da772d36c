package train

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/valyala/gozstd"

	"github.com/photoprism/agender/internal/nets"
)

// CheckpointExt is the checkpoint file extension.
const CheckpointExt = ".ckpt"

// checkpointMagic starts the header line of every checkpoint file.
const checkpointMagic = "agender"

var checkpointRegexp = regexp.MustCompile(`^model\.fold(\d+)\.(\d+)-(\d+\.\d{4})-(\d+\.\d{4})-(\d+\.\d{4})\.ckpt$`)

// Checkpoint identifies a saved network by the provenance encoded in its file name.
type Checkpoint struct {
	Fold      int
	Epoch     int
	ValLoss   float64
	ValGender float64
	ValAge    float64
}

// Name returns the checkpoint file name, e.g. "model.fold03.07-3.1416-0.9123-5.4321.ckpt".
func (c Checkpoint) Name() string {
	return fmt.Sprintf("model.fold%02d.%02d-%.4f-%.4f-%.4f%s", c.Fold, c.Epoch, c.ValLoss, c.ValGender, c.ValAge, CheckpointExt)
}

// ParseCheckpointName recovers fold, epoch and validation metrics from a checkpoint file name.
func ParseCheckpointName(fileName string) (c Checkpoint, err error) {
	m := checkpointRegexp.FindStringSubmatch(filepath.Base(fileName))

	if m == nil {
		return c, fmt.Errorf("train: %s is not a checkpoint name", filepath.Base(fileName))
	}

	c.Fold, _ = strconv.Atoi(m[1])
	c.Epoch, _ = strconv.Atoi(m[2])
	c.ValLoss, _ = strconv.ParseFloat(m[3], 64)
	c.ValGender, _ = strconv.ParseFloat(m[4], 64)
	c.ValAge, _ = strconv.ParseFloat(m[5], 64)

	return c, nil
}

// SaveCheckpoint writes a header line naming the model kind followed by the zstd compressed weights.
func SaveCheckpoint(fileName string, net nets.Network) error {
	var weights bytes.Buffer

	if err := net.Save(&weights); err != nil {
		return err
	}

	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s %s\n", checkpointMagic, net.Kind().Name()))
	buf.Write(gozstd.Compress(nil, weights.Bytes()))

	if err := os.MkdirAll(filepath.Dir(fileName), os.ModePerm); err != nil {
		return fmt.Errorf("train: %s", err)
	}

	if err := os.WriteFile(fileName, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("train: %s", err)
	}

	return nil
}

// LoadCheckpoint restores a network from a checkpoint file.
func LoadCheckpoint(fileName string, opt nets.Options) (nets.Network, error) {
	f, err := os.Open(fileName)

	if err != nil {
		return nil, fmt.Errorf("train: %s", err)
	}

	defer f.Close()

	r := bufio.NewReader(f)
	header, err := r.ReadString('\n')

	if err != nil {
		return nil, fmt.Errorf("train: invalid checkpoint %s", filepath.Base(fileName))
	}

	fields := strings.Fields(header)

	if len(fields) != 2 || fields[0] != checkpointMagic {
		return nil, fmt.Errorf("train: invalid checkpoint %s", filepath.Base(fileName))
	}

	kind, err := nets.ParseKind(fields[1])

	if err != nil {
		return nil, fmt.Errorf("train: %s", err)
	}

	compressed, err := io.ReadAll(r)

	if err != nil {
		return nil, fmt.Errorf("train: %s", err)
	}

	weights, err := gozstd.Decompress(nil, compressed)

	if err != nil {
		return nil, fmt.Errorf("train: %s in %s", err, filepath.Base(fileName))
	}

	net, err := kind.New(opt)

	if err != nil {
		return nil, err
	}

	if err := net.Load(bytes.NewReader(weights)); err != nil {
		return nil, err
	}

	return net, nil
}
