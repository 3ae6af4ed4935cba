package catalog

// ExtractIgMeta pulls the attribution block out of a raw <base>.mp4.json
// document. The exporter formats vary, so every field is looked up through a
// chain of known aliases. Returns nil when nothing useful was found.
func ExtractIgMeta(raw any) *IgMeta {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	owner := toMap(m["owner"])

	username := firstStr(m["username"], owner["username"])
	fullName := firstStr(m["fullname"], m["full_name"], owner["full_name"])
	postURL := firstStr(m["post_url"], m["postUrl"], m["permalink"])
	profilePic := firstStr(
		m["profile_pic_url"],
		toMap(owner["hd_profile_pic_url_info"])["url"],
		owner["profile_pic_url"],
		toMap(owner["profile_pic_url_info"])["url"],
	)
	postDate := firstStr(m["post_date"], m["date"], m["taken_at_timestamp"], m["timestamp"])
	description := firstStr(m["description"], m["caption"])

	if username == "" && profilePic == "" && postDate == "" && description == "" {
		return nil
	}

	meta := &IgMeta{
		Username:      username,
		FullName:      fullName,
		ProfilePicURL: profilePic,
		PostURL:       postURL,
		PostDate:      postDate,
		Description:   description,
	}
	if username != "" {
		meta.ProfileURL = "https://www.instagram.com/" + username + "/"
	}
	return meta
}

func firstStr(vals ...any) string {
	for _, v := range vals {
		if s := toStr(v); s != "" {
			return s
		}
	}
	return ""
}
