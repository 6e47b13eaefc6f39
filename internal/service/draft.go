package service

// Draft is the media a user has picked for the next post.
type Draft struct {
	images []string
	video  string
}

type DraftView struct {
	Images []string `json:"images"`
	Video  string   `json:"video,omitempty"`
}

// AddImages appends in order and silently keeps only the first nine.
func (d *Draft) AddImages(refs ...string) {
	for _, r := range refs {
		if len(d.images) >= MaxPostImages {
			return
		}
		if r == "" {
			continue
		}
		d.images = append(d.images, r)
	}
}

func (d *Draft) RemoveImage(index int) bool {
	if index < 0 || index >= len(d.images) {
		return false
	}
	d.images = append(d.images[:index], d.images[index+1:]...)
	return true
}

// SetVideo replaces any previously selected video.
func (d *Draft) SetVideo(ref string) {
	d.video = ref
}

func (d *Draft) ClearVideo() {
	d.video = ""
}

func (d *Draft) Reset() {
	d.images = nil
	d.video = ""
}

func (d *Draft) Empty() bool {
	return len(d.images) == 0 && d.video == ""
}

func (d *Draft) View() DraftView {
	return DraftView{Images: append([]string{}, d.images...), Video: d.video}
}
