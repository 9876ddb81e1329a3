// Package datasource implements the DataSource: the live pipeline head that
// modules render from, bound to the immutable reader it was derived from.
package datasource

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/voxview/internal/document"
	"github.com/specialistvlad/voxview/internal/proxy"
)

// Proxy kinds created by a DataSource.
const (
	ProducerName = "TrivialProducer"
	ColorMapName = "PVLookupTable"

	// KindColorMap is the child node holding the colour map dump.
	KindColorMap = "ColorMap"
)

// ErrNotSource is returned when a proxy that must produce data does not.
var ErrNotSource = errors.New("proxy does not produce data")

// DataSource owns one producer proxy fed by a shared, immutable reader.
type DataSource struct {
	pm        proxy.Manager
	original  proxy.Source
	producer  proxy.Source
	colorMap  proxy.Proxy
	label     string
	destroyed bool
}

// New creates a DataSource for reader. The producer is created and
// registered with pm; the reader itself is never registered or serialized
// here because several DataSources may share it.
func New(pm proxy.Manager, reader proxy.Source) (*DataSource, error) {
	if pm == nil || reader == nil {
		return nil, fmt.Errorf("datasource: proxy manager and reader are required")
	}

	p, err := pm.NewProxy(proxy.GroupSources, ProducerName)
	if err != nil {
		return nil, fmt.Errorf("datasource: create producer: %w", err)
	}
	producer, ok := p.(proxy.Source)
	if !ok {
		return nil, fmt.Errorf("datasource: producer %s/%s: %w", p.Group(), p.Name(), ErrNotSource)
	}
	producer.SetProxyProperty("Input", reader)
	if err := pm.Register(proxy.GroupSources, producer); err != nil {
		return nil, fmt.Errorf("datasource: register producer: %w", err)
	}

	label := reader.Name()
	if files := reader.Property("FileName"); len(files) > 0 && files[0] != "" {
		label = files[0]
	}

	return &DataSource{
		pm:       pm,
		original: reader,
		producer: producer,
		label:    label,
	}, nil
}

// Producer returns the live pipeline head. It is never nil.
func (d *DataSource) Producer() proxy.Source {
	return d.producer
}

// OriginalDataSource returns the reader this DataSource was derived from.
func (d *DataSource) OriginalDataSource() proxy.Source {
	return d.original
}

// ProxyManager returns the proxy manager the DataSource was created with.
func (d *DataSource) ProxyManager() proxy.Manager {
	return d.pm
}

// Label is the display name, initially the reader's file name.
func (d *DataSource) Label() string {
	return d.label
}

// SetLabel changes the display name.
func (d *DataSource) SetLabel(label string) {
	d.label = label
}

// ColorMap returns the lookup table used to colour the first point array,
// creating it on first use.
func (d *DataSource) ColorMap() (proxy.Proxy, error) {
	if d.colorMap != nil {
		return d.colorMap, nil
	}
	lut, err := d.pm.NewProxy(proxy.GroupLookupTables, ColorMapName)
	if err != nil {
		return nil, fmt.Errorf("datasource: create colour map: %w", err)
	}
	if arrays := d.producer.DataInformation().PointArrays; len(arrays) > 0 {
		lut.SetProperty("ArrayName", arrays[0])
	}
	if err := d.pm.Register(proxy.GroupLookupTables, lut); err != nil {
		return nil, fmt.Errorf("datasource: register colour map: %w", err)
	}
	d.colorMap = lut
	return lut, nil
}

// HasColorMap reports whether a colour map has been created.
func (d *DataSource) HasColorMap() bool {
	return d.colorMap != nil
}

// Serialize writes the DataSource's own attributes: its label and, when one
// exists, its colour map.
func (d *DataSource) Serialize(node *document.Node) error {
	node.SetAttr("label", d.label)
	if d.colorMap == nil {
		return nil
	}
	cm := node.AppendChild(KindColorMap)
	cm.SetAttr("xmlgroup", d.colorMap.Group())
	cm.SetAttr("xmlname", d.colorMap.Name())
	if err := d.pm.Serialize(d.colorMap, cm); err != nil {
		return fmt.Errorf("datasource: serialize colour map: %w", err)
	}
	return nil
}

// Deserialize restores what Serialize wrote.
func (d *DataSource) Deserialize(node *document.Node) error {
	if label, ok := node.Attr("label"); ok {
		d.label = label
	}
	cm := node.Child(KindColorMap)
	if cm == nil {
		return nil
	}
	lut, err := d.ColorMap()
	if err != nil {
		return err
	}
	if err := d.pm.Deserialize(lut, cm, nil); err != nil {
		return fmt.Errorf("datasource: deserialize colour map: %w", err)
	}
	return nil
}

// Destroy releases the proxies the DataSource registered. It is safe to call
// more than once.
func (d *DataSource) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true
	d.pm.Unregister(d.producer)
	if d.colorMap != nil {
		d.pm.Unregister(d.colorMap)
	}
}

// Destroyed reports whether Destroy has run.
func (d *DataSource) Destroyed() bool {
	return d.destroyed
}
