package converter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackcoderx/transformer/pkg/builder"
	"github.com/blackcoderx/transformer/pkg/ident"
	"github.com/blackcoderx/transformer/pkg/schema"
	v1 "github.com/blackcoderx/transformer/pkg/schema/v1"
	v2 "github.com/blackcoderx/transformer/pkg/schema/v2"
)

func decode[T any](t *testing.T, doc string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(doc), &v))
	return v
}

func encode(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

const v21Doc = `{
	"info": {"_postman_id": "c1", "name": "Sample", "description": "About", "schema": "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"},
	"auth": {"type": "noauth"},
	"variable": [{"key": "host", "value": "example.com"}],
	"item": [
		{
			"id": "f1",
			"name": "Folder",
			"item": [
				{"id": "f2", "name": "Inner", "item": []},
				{
					"id": "r2",
					"name": "Create",
					"request": {
						"method": "POST",
						"url": {"raw": "https://{{host}}/items?a=1", "query": [{"key": "a", "value": "1"}], "variable": [{"key": "id", "value": "7"}]},
						"header": [{"key": "Content-Type", "value": "application/x-www-form-urlencoded"}, {"key": "X-Off", "value": "1", "disabled": true}],
						"body": {"mode": "urlencoded", "urlencoded": [{"key": "name", "value": "n", "description": "the name"}]},
						"auth": {"type": "basic", "basic": [{"key": "username", "value": "u", "type": "string"}, {"key": "password", "value": "p", "type": "string"}]}
					},
					"event": [{"listen": "prerequest", "script": {"exec": ["pre()"]}}, {"listen": "test", "script": {"exec": "a\nb"}}],
					"response": [{
						"id": "s1",
						"name": "Created",
						"status": "Created",
						"code": 201,
						"_postman_previewlanguage": "json",
						"header": [{"key": "Content-Type", "value": "application/json"}],
						"body": "{}",
						"originalRequest": {"method": "POST", "url": "https://{{host}}/items"}
					}]
				}
			]
		},
		{"_postman_id": "r1", "name": "List", "request": "https://{{host}}/items"}
	]
}`

func TestConvertV21ToV1(t *testing.T) {
	c, err := ConvertV21ToV1(decode[*v2.Collection](t, v21Doc), builder.Options{RetainIDs: true}, nil)
	require.NoError(t, err)

	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, "Sample", c.Name)
	assert.Equal(t, "About", c.Description)
	assert.Nil(t, c.Auth, "collection noauth is excluded")
	assert.Equal(t, []schema.Variable{{Key: "host", Value: "example.com"}}, c.Variables)
	assert.Equal(t, []string{"r1"}, c.Order)
	assert.Equal(t, []string{"f1"}, c.FoldersOrder)

	require.Len(t, c.Folders, 2)
	assert.Equal(t, "f1", c.Folders[0].ID)
	assert.Equal(t, []string{"r2"}, c.Folders[0].Order)
	assert.Equal(t, []string{"f2"}, c.Folders[0].FoldersOrder)
	assert.Equal(t, "f2", c.Folders[1].ID)

	require.Len(t, c.Requests, 2)
	r2, r1 := c.Requests[0], c.Requests[1]
	assert.Equal(t, "r2", r2.ID)
	assert.Equal(t, "f1", r2.Folder)
	assert.Equal(t, "c1", r2.CollectionID)
	assert.Equal(t, "r1", r1.ID)
	assert.Empty(t, r1.Folder)
	assert.Equal(t, "GET", r1.Method)
	assert.Equal(t, "https://{{host}}/items", r1.URL)

	assert.Equal(t, "POST", r2.Method)
	assert.Equal(t, "https://{{host}}/items?a=1", r2.URL)
	assert.Equal(t, []v1.Param{{Key: "a", Value: "1"}}, r2.QueryParams)
	assert.Equal(t, map[string]any{"id": "7"}, r2.PathVariables)
	assert.Equal(t, "Content-Type: application/x-www-form-urlencoded\n//X-Off: 1", r2.Headers)
	assert.Len(t, r2.HeaderData, 2)
	assert.Equal(t, "urlencoded", r2.DataMode)
	assert.Equal(t, []v1.Param{{Key: "name", Value: "n", Description: schema.NewDescription("the name")}}, r2.Data)

	assert.Equal(t, "basic", r2.Auth.Type)
	assert.Equal(t, "basicAuth", r2.CurrentHelper)
	assert.Equal(t, map[string]any{"id": "basic", "username": "u", "password": "p"}, r2.HelperAttributes)

	assert.Equal(t, "pre()", r2.PreRequestScript)
	assert.Equal(t, "a\nb", r2.Tests)
	require.Len(t, r2.Events, 2)
	assert.Equal(t, []string{"a", "b"}, r2.Events[1].Script.Exec.Lines)

	require.Len(t, r2.Responses, 1)
	resp := r2.Responses[0]
	assert.Equal(t, "s1", resp.ID)
	assert.Equal(t, &v1.ResponseCode{Code: 201, Name: "Created"}, resp.ResponseCode)
	assert.Equal(t, "json", resp.Language)
	assert.Equal(t, "{}", resp.Text)
	require.NotNil(t, resp.Request)
	require.NotNil(t, resp.Request.Request)
	assert.Equal(t, "https://{{host}}/items", resp.Request.Request.URL)
}

func TestConvertV21ToV1_RegeneratedIDsStayConsistent(t *testing.T) {
	c, err := ConvertV21ToV1(decode[*v2.Collection](t, v21Doc), builder.Options{IDs: &ident.Sequence{Prefix: "n"}}, nil)
	require.NoError(t, err)

	assert.Equal(t, "c1", c.ID)
	ids := make(map[string]bool)
	for _, f := range c.Folders {
		ids[f.ID] = true
	}
	for _, r := range c.Requests {
		ids[r.ID] = true
		assert.Equal(t, c.ID, r.CollectionID)
		if r.Folder != "" {
			assert.True(t, ids[r.Folder])
		}
	}
	for _, id := range append(append([]string{}, c.Order...), c.FoldersOrder...) {
		assert.True(t, ids[id], "order entry %s must reference a converted node", id)
	}
	assert.NotContains(t, ids, "r1")
}

func TestConvertV21ToV1_KeepsCollectionIdentity(t *testing.T) {
	doc := `{"info": {"_postman_id": "keep-me", "name": "K", "schema": "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"}, "item": []}`

	c, err := ConvertV21ToV1(decode[*v2.Collection](t, doc), builder.Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "keep-me", c.ID)

	c, err = ConvertV21ToV1(decode[*v2.Collection](t, `{"info": {"name": "K"}, "item": []}`), builder.Options{IDs: &ident.Sequence{Prefix: "n"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "n1", c.ID)
}

func TestConvertV2ToV1_MapFormAuth(t *testing.T) {
	item := decode[*v2.Item](t, `{
		"id": "r",
		"request": {
			"url": "https://example.com",
			"auth": {"type": "digest", "digest": {"username": "u", "realm": "r"}}
		}
	}`)

	r, err := ConvertSingle(item, v2.Version20, builder.Options{RetainIDs: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, &schema.Auth{Type: "digest", Params: []schema.AuthParam{
		{Key: "realm", Value: "r", Type: "string"},
		{Key: "username", Value: "u", Type: "string"},
	}}, r.Auth)
	assert.Equal(t, "digestAuth", r.CurrentHelper)
}

func TestConvertSingle_FileBodyIsEmptyData(t *testing.T) {
	item := decode[*v2.Item](t, `{"id":"r","request":{"url":"u","body":{"mode":"file","file":{"src":"/tmp/x"}}}}`)

	r, err := ConvertSingle(item, v2.Version21, builder.Options{RetainIDs: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "binary", r.DataMode)
	assert.Equal(t, []v1.Param{}, r.Data)
}

func TestConvertResponse(t *testing.T) {
	resp := decode[*v2.Response](t, `{"id":"s","name":"ok","code":200,"status":"OK","cookie":[{"name":"c"}]}`)

	r, err := ConvertResponse(resp, v2.Version21, builder.Options{RetainIDs: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "s", r.ID)
	assert.Equal(t, "OK", r.Status)
	assert.Len(t, r.Cookies, 1)
	assert.Nil(t, r.Request)
}

func TestConvert_UnsupportedVersion(t *testing.T) {
	_, err := Convert(&v2.Collection{}, "3.0.0", builder.Options{}, nil)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, err = ConvertToV2(&v1.Collection{}, "1.0.0", builder.Options{}, nil)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestConvert_Callback(t *testing.T) {
	var gotErr error
	got, err := Convert(&v2.Collection{}, "9", builder.Options{}, func(err error, _ *v1.Collection) {
		gotErr = err
	})

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, gotErr, ErrUnsupportedVersion)
}

const v1Doc = `{
	"id": "c1",
	"name": "Legacy",
	"description": "Old",
	"order": ["r1"],
	"folders_order": ["f1"],
	"folders": [
		{"id": "f1", "name": "A", "order": ["r2"], "folders_order": ["f2"]},
		{"id": "f2", "name": "B", "order": [], "folders_order": ["f1"]},
		{"id": "f3", "name": "Orphan", "order": []}
	],
	"requests": [
		{
			"id": "r1",
			"url": "https://example.com/a?x=1",
			"method": "GET",
			"headers": "Accept: */*",
			"currentHelper": "basicAuth",
			"helperAttributes": {"id": "basic", "username": "u", "password": "p"},
			"tests": "t1\nt2",
			"responses": [{"id": "s1", "name": "ok", "responseCode": {"code": 200, "name": "OK"}, "text": "hi", "request": "r1"}]
		},
		{"id": "r2", "url": "https://example.com/b", "method": "POST", "dataMode": "params", "data": [{"key": "f", "value": "/tmp/f", "type": "file"}]},
		{"id": "r3", "url": "https://example.com/c", "method": "DELETE"}
	]
}`

func TestConvertV1ToV21(t *testing.T) {
	c, err := ConvertV1ToV21(decode[*v1.Collection](t, v1Doc), builder.Options{RetainIDs: true}, nil)
	require.NoError(t, err)

	assert.Equal(t, "c1", c.Info.PostmanID)
	assert.Equal(t, v2.SchemaURL21, c.Info.Schema)
	assert.Equal(t, "Old", c.Info.Description.Text())

	require.Len(t, c.Item, 4)
	f1, r1, f3, r3 := c.Item[0], c.Item[1], c.Item[2], c.Item[3]
	assert.Equal(t, "f1", f1.ID)
	assert.Equal(t, "r1", r1.ID)
	assert.Equal(t, "f3", f3.ID, "unreached folder appended at root")
	assert.Equal(t, "r3", r3.ID, "unreached request appended at root")

	require.Len(t, f1.Item, 2)
	f2 := f1.Item[0]
	assert.Equal(t, "f2", f2.ID)
	assert.True(t, f2.IsFolder())
	assert.Empty(t, f2.Item, "cycle back to f1 is not followed")
	assert.Equal(t, "r2", f1.Item[1].ID)

	req := r1.Request
	assert.Equal(t, "https://example.com/a?x=1", req.URL.Raw)
	require.Len(t, req.URL.Query, 1)
	assert.Equal(t, "x", req.URL.Query[0].Key)
	assert.Equal(t, v2.Headers{{Key: "Accept", Value: "*/*"}}, req.Header)
	assert.JSONEq(t, `{"type":"basic","basic":[{"key":"username","value":"u","type":"string"},{"key":"password","value":"p","type":"string"}]}`,
		encode(t, req.Auth))

	require.Len(t, r1.Event, 1)
	assert.Equal(t, "test", r1.Event[0].Listen)
	assert.Equal(t, []string{"t1", "t2"}, r1.Event[0].Script.Exec.Lines)

	require.Len(t, r1.Response, 1)
	resp := r1.Response[0]
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, "OK", resp.Status)
	assert.Equal(t, "hi", resp.Body)
	require.NotNil(t, resp.OriginalRequest, "request reference resolved within the collection")
	assert.Equal(t, "https://example.com/a?x=1", resp.OriginalRequest.URL.Raw)

	body := f1.Item[1].Request.Body
	require.NotNil(t, body)
	assert.Equal(t, "formdata", body.Mode)
	assert.Equal(t, []v2.Param{{Key: "f", Src: "/tmp/f", Type: "file"}}, body.FormData)
}

func TestConvertV1ToV2_MapFormAuth(t *testing.T) {
	c, err := ConvertV1ToV2(decode[*v1.Collection](t, v1Doc), builder.Options{RetainIDs: true}, nil)
	require.NoError(t, err)

	assert.Equal(t, v2.SchemaURL20, c.Info.Schema)
	assert.JSONEq(t, `{"type":"basic","basic":{"username":"u","password":"p"}}`, encode(t, c.Item[1].Request.Auth))
}

func TestConvertV1ToV21_RoundTripScripts(t *testing.T) {
	in := decode[*v1.Collection](t, v1Doc)
	v2c, err := ConvertV1ToV21(in, builder.Options{RetainIDs: true}, nil)
	require.NoError(t, err)

	back, err := ConvertV21ToV1(v2c, builder.Options{RetainIDs: true}, nil)
	require.NoError(t, err)

	var r1 *v1.Request
	for _, r := range back.Requests {
		if r.ID == "r1" {
			r1 = r
		}
	}
	require.NotNil(t, r1)
	assert.Equal(t, "t1\nt2", r1.Tests)
	assert.Equal(t, map[string]any{"id": "basic", "username": "u", "password": "p"}, r1.HelperAttributes)
}

func TestConvertSingleToV2(t *testing.T) {
	r := decode[*v1.Request](t, `{"id":"r","url":"https://e.com","dataMode":"raw","rawModeData":"{}","description":"d"}`)

	item, err := ConvertSingleToV2(r, v2.Version21, builder.Options{RetainIDs: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "r", item.ID)
	assert.Equal(t, &v2.Body{Mode: "raw", Raw: "{}"}, item.Request.Body)
	assert.Equal(t, "d", item.Request.Description.Text())
	assert.Equal(t, "GET", item.Request.Method)
}

func TestConvertSingle_RawHeaderStringDescriptions(t *testing.T) {
	item := decode[*v2.Item](t, `{"id":"r","request":{"url":"u","header":"Accept: text/plain // what we read\n//X-Off: 1"}}`)

	r, err := ConvertSingle(item, v2.Version21, builder.Options{RetainIDs: true}, nil)
	require.NoError(t, err)
	require.Len(t, r.HeaderData, 2)
	assert.Equal(t, "text/plain", r.HeaderData[0].Value)
	assert.Equal(t, "what we read", r.HeaderData[0].Description.Text())
	assert.True(t, r.HeaderData[1].Disabled)
}

func TestConvertSingleToV2_FormDataContentType(t *testing.T) {
	r := decode[*v1.Request](t, `{"id":"r","url":"u","dataMode":"params","data":[{"key":"meta","value":{"n":1},"type":"text","contentType":"application/json"}]}`)

	item, err := ConvertSingleToV2(r, v2.Version21, builder.Options{RetainIDs: true}, nil)
	require.NoError(t, err)
	require.Len(t, item.Request.Body.FormData, 1)
	p := item.Request.Body.FormData[0]
	assert.Equal(t, "application/json", p.ContentType)
	assert.Equal(t, map[string]any{"n": float64(1)}, p.Value)

	back, err := ConvertSingle(item, v2.Version21, builder.Options{RetainIDs: true}, nil)
	require.NoError(t, err)
	require.Len(t, back.Data, 1)
	assert.JSONEq(t, `{"key":"meta","value":{"n":1},"type":"text","contentType":"application/json"}`, encode(t, back.Data[0]))
}

func TestConvertResponseToV2_UnresolvedReference(t *testing.T) {
	r := decode[*v1.Response](t, `{"id":"s","text":"x","request":"r9"}`)

	out, err := ConvertResponseToV2(r, v2.Version21, builder.Options{RetainIDs: true}, nil)
	require.NoError(t, err)
	assert.Nil(t, out.OriginalRequest)
	assert.Equal(t, "x", out.Body)
}

func TestConvertForms(t *testing.T) {
	doc := `{
		"info": {"_postman_id": "c", "name": "F", "schema": "https://schema.getpostman.com/json/collection/v2.0.0/collection.json"},
		"auth": {"type": "bearer", "bearer": {"token": "t"}},
		"item": [{"id": "r", "request": {"url": "u", "auth": {"type": "basic", "basic": {"username": "u"}}}}]
	}`

	up, err := ConvertV2ToV21(decode[*v2.Collection](t, doc), builder.Options{RetainIDs: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, v2.SchemaURL21, up.Info.Schema)
	assert.JSONEq(t, `{"type":"bearer","bearer":[{"key":"token","value":"t","type":"string"}]}`, encode(t, up.Auth))
	assert.JSONEq(t, `{"type":"basic","basic":[{"key":"username","value":"u","type":"string"}]}`, encode(t, up.Item[0].Request.Auth))

	down, err := ConvertV21ToV2(up, builder.Options{RetainIDs: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, v2.SchemaURL20, down.Info.Schema)
	assert.JSONEq(t, `{"type":"bearer","bearer":{"token":"t"}}`, encode(t, down.Auth))
}

func TestConvertForms_KeepsCollectionIdentity(t *testing.T) {
	doc := `{"info": {"_postman_id": "keep-me", "name": "F"}, "item": [{"id": "r", "request": "u"}]}`

	up, err := ConvertV2ToV21(decode[*v2.Collection](t, doc), builder.Options{IDs: &ident.Sequence{Prefix: "n"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "keep-me", up.Info.PostmanID)
	assert.Empty(t, up.Info.ID)
	assert.Equal(t, "n1", up.Item[0].ID)
}

func TestConvertForms_DoesNotMutateInput(t *testing.T) {
	in := decode[*v2.Collection](t, `{"info":{"name":"F","schema":"x"},"item":[]}`)

	_, err := ConvertV2ToV21(in, builder.Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "x", in.Info.Schema)
	assert.Empty(t, in.Info.ID)
}
