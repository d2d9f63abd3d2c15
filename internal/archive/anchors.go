package archive

import (
	"archive/zip"
	"encoding/xml"
	"path"
	"strings"

	"mobilia/internal"
)

// Worksheet drawings carry the cell each picture is anchored to. The
// drawing XML references images through relationship ids resolved in the
// drawing's own .rels part.

type xmlRelationships struct {
	Relationships []struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type xmlDrawing struct {
	OneCell []xmlAnchor `xml:"oneCellAnchor"`
	TwoCell []xmlAnchor `xml:"twoCellAnchor"`
}

type xmlAnchor struct {
	From struct {
		Col int `xml:"col"`
		Row int `xml:"row"`
	} `xml:"from"`
	Pic struct {
		NvPicPr struct {
			CNvPr struct {
				Name  string `xml:"name,attr"`
				Descr string `xml:"descr,attr"`
			} `xml:"cNvPr"`
		} `xml:"nvPicPr"`
		BlipFill struct {
			Blip struct {
				Embed string `xml:"embed,attr"`
			} `xml:"blip"`
		} `xml:"blipFill"`
	} `xml:"pic"`
}

type anchorInfo struct {
	row     int
	altText string
}

// applyAnchors joins drawing anchors to extracted images by their original
// media path. Best-effort: anything unparsable just leaves AnchorRow 0.
func applyAnchors(zr *zip.Reader, images []internal.ExtractedImage) {
	anchors := collectAnchors(zr)
	if len(anchors) == 0 {
		return
	}
	for i := range images {
		base := path.Base(images[i].OriginalPath)
		if info, ok := anchors[base]; ok {
			images[i].AnchorRow = info.row
			images[i].AltText = info.altText
		}
	}
}

func collectAnchors(zr *zip.Reader) map[string]anchorInfo {
	out := map[string]anchorInfo{}

	for _, entry := range zr.File {
		if !strings.HasPrefix(entry.Name, "xl/drawings/") || !strings.HasSuffix(entry.Name, ".xml") {
			continue
		}

		targets := drawingTargets(zr, entry.Name)
		if len(targets) == 0 {
			continue
		}

		blob, err := readZipEntry(entry)
		if err != nil {
			continue
		}
		var drawing xmlDrawing
		if err := xml.Unmarshal(blob, &drawing); err != nil {
			continue
		}

		for _, anchor := range append(drawing.OneCell, drawing.TwoCell...) {
			target, ok := targets[anchor.Pic.BlipFill.Blip.Embed]
			if !ok {
				continue
			}
			alt := anchor.Pic.NvPicPr.CNvPr.Descr
			if alt == "" {
				alt = anchor.Pic.NvPicPr.CNvPr.Name
			}
			// drawing rows are 0-indexed
			out[path.Base(target)] = anchorInfo{row: anchor.From.Row + 1, altText: alt}
		}
	}

	return out
}

// drawingTargets maps relationship ids of one drawing part to their image
// targets.
func drawingTargets(zr *zip.Reader, drawingName string) map[string]string {
	relsName := path.Join(path.Dir(drawingName), "_rels", path.Base(drawingName)+".rels")

	var relsEntry *zip.File
	for _, entry := range zr.File {
		if entry.Name == relsName {
			relsEntry = entry
			break
		}
	}
	if relsEntry == nil {
		return nil
	}

	blob, err := readZipEntry(relsEntry)
	if err != nil {
		return nil
	}
	var rels xmlRelationships
	if err := xml.Unmarshal(blob, &rels); err != nil {
		return nil
	}

	out := map[string]string{}
	for _, rel := range rels.Relationships {
		if strings.Contains(rel.Type, "image") {
			out[rel.ID] = rel.Target
		}
	}
	return out
}
