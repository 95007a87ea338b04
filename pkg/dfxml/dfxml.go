package dfxml

import (
	"os"
	"os/user"
	"strconv"
	"time"

	"github.com/ostafen/extractinator/pkg/sysinfo"
)

const (
	XmlOutputVersion = "1.0"

	nsDFXML = "http://www.forensicswiki.org/wiki/Category:Digital_Forensics_XML"
	nsXSI   = "http://www.w3.org/2001/XMLSchema-instance"
	nsDC    = "http://purl.org/dc/elements/1.1/"
)

// Header holds the sections written before the first fileobject.
type Header struct {
	Metadata Metadata
	Creator  Creator
	Source   Source
}

type Metadata struct {
	Type       string `xml:"dc:type"`
	Identifier string `xml:"dc:identifier,omitempty"` // scan run id
}

type Creator struct {
	Package              string  `xml:"package"`
	Version              string  `xml:"version"`
	ExecutionEnvironment ExecEnv `xml:"execution_environment"`
}

type ExecEnv struct {
	OS      string `xml:"os_sysname"`
	Release string `xml:"os_release"`
	Version string `xml:"os_version"`
	Host    string `xml:"host"`
	Arch    string `xml:"arch"`
	UID     int    `xml:"uid"`
	Start   string `xml:"start_time"`
}

type Source struct {
	ImageFilename string `xml:"image_filename"`
	ImageSize     uint64 `xml:"image_size"`
}

// FileObject describes one carved artifact.
type FileObject struct {
	Filename string   `xml:"filename"`
	FileSize uint64   `xml:"filesize"`
	Format   string   `xml:"format,omitempty"`
	ByteRuns ByteRuns `xml:"byte_runs"`
}

type ByteRuns struct {
	Runs []ByteRun `xml:"byte_run"`
}

// ByteRun maps Length bytes at Offset within the artifact to ImgOffset within the source.
type ByteRun struct {
	Offset    uint64 `xml:"offset,attr"`
	ImgOffset uint64 `xml:"img_offset,attr"`
	Length    uint64 `xml:"len,attr"`
}

// Contiguous builds the file object of an artifact stored as a single run of the source.
func Contiguous(name, format string, imgOffset, length uint64) FileObject {
	return FileObject{
		Filename: name,
		FileSize: length,
		Format:   format,
		ByteRuns: ByteRuns{
			Runs: []ByteRun{{Offset: 0, ImgOffset: imgOffset, Length: length}},
		},
	}
}

func GetExecEnv(start time.Time) ExecEnv {
	sinfo := sysinfo.Stat()

	host, err := os.Hostname()
	if err != nil {
		host = sysinfo.Unknown
	}

	uid := 0
	if u, err := user.Current(); err == nil {
		if n, err := strconv.Atoi(u.Uid); err == nil {
			uid = n
		}
	}

	return ExecEnv{
		OS:      sinfo.Name,
		Release: sinfo.Release,
		Version: sinfo.Version,
		Host:    host,
		Arch:    sinfo.Machine,
		UID:     uid,
		Start:   start.UTC().Format(time.RFC3339),
	}
}
