package intercept

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"mtpstub/common"
	"mtpstub/objects"
)

// should be usable in the zap log.Named()
const driverName = "mtp-intercept"

const defaultChunkSize = 32

// ProgressFunc matches the shape of the device library progress callback.
// The shim accepts it for signature compatibility and never invokes it.
type ProgressFunc func(sent, total uint64, data any) int

// Recorder persists intercepted calls, see journal package.
type Recorder interface {
	Record(op string, fi *objects.FileInfo, path string) error
}

// Device substitutes for a real MTP driver: the send entry points record
// their parameters and succeed without talking to any device.
type Device struct {
	log     *zap.Logger
	sink    Sink
	jrnl    Recorder
	verbose bool
	chunk   int
}

// Connect prepares the interception shim. When sink is nil the fixed
// diagnostic file in the system temporary directory is used. A nil jrnl
// disables call journaling, only the plain-text sink is written then.
// When verbose is set, source content is read and hex-dumped to the sink
// in chunk-sized slices.
func Connect(sink Sink, jrnl Recorder, verbose bool, chunk int, log *zap.Logger) (*Device, error) {
	if sink == nil {
		sink = NewFileSink("")
	}
	if chunk <= 0 {
		chunk = defaultChunkSize
	}
	d := &Device{
		log:     log.Named(driverName),
		sink:    sink,
		jrnl:    jrnl,
		verbose: verbose,
		chunk:   chunk,
	}
	d.log.Debug("Interception active", zap.Bool("verbose", verbose), zap.Int("chunk", chunk))
	return d, nil
}

// driver interface

func (d *Device) Disconnect() {
	// nothing to do at the moment
}

func (d *Device) Name() string {
	return driverName
}

func (d *Device) UniqueID() string {
	return driverName
}

// SendFromReader replaces the descriptor-based send entry point. It appends
// a single diagnostic line with all descriptor fields and succeeds without
// transferring anything. The callback and its data are accepted but unused.
func (d *Device) SendFromReader(src io.Reader, fi *objects.FileInfo, progress ProgressFunc, data any) (err error) {
	if fi == nil {
		return common.ErrNilDescriptor
	}
	if src == nil {
		return common.ErrNilSource
	}

	defer func(start time.Time) {
		d.log.Debug("Executed action SendFromReader", zap.String("actor", d.Name()), zap.Any("descriptor", fi), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
	}(time.Now())

	out, err := d.sink.Append()
	if err != nil {
		return fmt.Errorf("unable to open diagnostic sink: %w", err)
	}
	defer d.closeSink(out)

	fmt.Fprintf(out, "Send_File_From_File_Descriptor %s: id=%d, parent=%d, storage=%d, size=%d, type=%d (%d)\n",
		fi.Name, fi.Oid, fi.OidParent, fi.StorageID, fi.ObjSize, fi.Type, objects.FileTypeUnknown)

	if d.verbose {
		d.dumpContent(out, src)
	}
	d.record("SendFromReader", fi, "")
	return nil
}

// SendFromFile replaces the path-based send entry point. It appends a
// diagnostic line with the descriptor fields and the source path, then
// verifies the path can be opened for reading. No bytes are transferred,
// the source is closed right away unless verbose dumping is on.
func (d *Device) SendFromFile(path string, fi *objects.FileInfo, progress ProgressFunc, data any) (err error) {
	if fi == nil {
		return common.ErrNilDescriptor
	}
	if len(path) == 0 {
		return common.ErrNilSource
	}

	defer func(start time.Time) {
		d.log.Debug("Executed action SendFromFile", zap.String("actor", d.Name()), zap.String("path", path), zap.Any("descriptor", fi), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
	}(time.Now())

	out, err := d.sink.Append()
	if err != nil {
		return fmt.Errorf("unable to open diagnostic sink: %w", err)
	}
	// unlike the stubs being replaced the sink is released on all paths
	defer d.closeSink(out)

	fmt.Fprintf(out, "Send_File_From_File %s: id=%d, parent=%d, storage=%d, size=%d, type=%d (%d) local path = %s\n",
		fi.Name, fi.Oid, fi.OidParent, fi.StorageID, fi.ObjSize, fi.Type, objects.FileTypeUnknown, path)

	src, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(out, "Error opening local file %s (%d)\n", path, errnoCode(err))
		return fmt.Errorf("unable to open local file '%s': %w", path, err)
	}
	defer src.Close()

	if d.verbose {
		d.dumpContent(out, src)
	}
	d.record("SendFromFile", fi, path)
	return nil
}

// implementation

func (d *Device) dumpContent(out io.Writer, src io.Reader) {
	buf := make([]byte, d.chunk)
	for {
		cb, err := src.Read(buf)
		if cb > 0 {
			Dump(out, buf[:cb])
		}
		if err != nil {
			if err != io.EOF {
				d.log.Warn("Problems reading source content", zap.Error(err))
			}
			return
		}
	}
}

func (d *Device) record(op string, fi *objects.FileInfo, path string) {
	if d.jrnl == nil {
		return
	}
	if err := d.jrnl.Record(op, fi, path); err != nil {
		d.log.Warn("Unable to journal intercepted call", zap.String("op", op), zap.Error(err))
	}
}

func (d *Device) closeSink(out io.Closer) {
	if err := out.Close(); err != nil {
		d.log.Warn("Unable to close diagnostic sink", zap.Error(err))
	}
}
